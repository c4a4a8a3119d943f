package engine

import (
	"strings"

	"pdf-docat-backend/internal/models"
)

// ParseBlocks turns extracted text (plain or markdown-flavored, as the OCR
// API returns) into the ordered block sequence the API exposes: headings,
// code fences, tables and text paragraphs.
func ParseBlocks(text string) []models.ContentBlock {
	var blocks []models.ContentBlock
	var paragraph []string

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		blocks = append(blocks, models.ContentBlock{
			Type:    "text",
			Content: strings.Join(paragraph, "\n"),
		})
		paragraph = nil
	}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushParagraph()

		case strings.HasPrefix(trimmed, "#"):
			flushParagraph()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			if level > 6 {
				level = 6
			}
			blocks = append(blocks, models.ContentBlock{
				Type:    "heading",
				Content: strings.TrimSpace(trimmed[level:]),
				Level:   level,
			})

		case strings.HasPrefix(trimmed, "```"):
			flushParagraph()
			language := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			var code []string
			for i++; i < len(lines); i++ {
				if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
					break
				}
				code = append(code, lines[i])
			}
			blocks = append(blocks, models.ContentBlock{
				Type:     "code",
				Content:  strings.Join(code, "\n"),
				Language: language,
			})

		case isTableRow(trimmed):
			flushParagraph()
			var rows [][]string
			for ; i < len(lines); i++ {
				row := strings.TrimSpace(lines[i])
				if !isTableRow(row) {
					i--
					break
				}
				if isTableSeparator(row) {
					continue
				}
				rows = append(rows, splitTableRow(row))
			}
			block := models.ContentBlock{Type: "table"}
			if len(rows) > 0 {
				block.Headers = rows[0]
				block.Rows = rows[1:]
			}
			blocks = append(blocks, block)

		default:
			paragraph = append(paragraph, line)
		}
	}
	flushParagraph()

	return blocks
}

// CountWords totals the words across every block for the content metadata.
func CountWords(blocks []models.ContentBlock) int {
	count := 0
	for _, b := range blocks {
		count += len(strings.Fields(b.Content))
		count += len(b.Headers)
		for _, row := range b.Rows {
			for _, cell := range row {
				count += len(strings.Fields(cell))
			}
		}
	}
	return count
}

func isTableRow(line string) bool {
	return strings.HasPrefix(line, "|") && strings.Count(line, "|") >= 2
}

func isTableSeparator(line string) bool {
	inner := strings.Trim(line, "|")
	for _, r := range inner {
		if r != '-' && r != ':' && r != '|' && r != ' ' {
			return false
		}
	}
	return inner != ""
}

func splitTableRow(line string) []string {
	cells := strings.Split(strings.Trim(line, "|"), "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}
