package skill

import "github.com/hupe1980/taskmesh/core"

// Builtins returns the default skill set shipped with the catalog. Persisted
// skills with the same name override these at load time.
func Builtins() []core.Skill {
	return []core.Skill{
		{
			Name:        "document-authoring",
			Description: "Writing, structuring, and formatting Word documents",
			Prompt: "You are drafting a Word document. Organize content with clear headings, " +
				"keep paragraphs short, and apply consistent styles rather than manual formatting.",
			RequiredTools: []string{"word_create", "word_write", "word_set_style"},
			Modifications: []core.Modification{
				core.AddInstruction{Text: "Always add a title heading before any body text."},
				core.SetParameter{Key: "audience", Value: "business"},
			},
		},
		{
			Name:        "spreadsheet-analysis",
			Description: "Analyzing tabular data and building Excel workbooks",
			Prompt: "You are working with spreadsheet data. Prefer formulas over hard-coded values, " +
				"label every column, and verify cell references before writing.",
			RequiredTools: []string{"excel_create", "excel_write_cell", "excel_read_range"},
			Modifications: []core.Modification{
				core.AddInstruction{Text: "Summarize key figures in a dedicated overview sheet."},
				core.EnableFeature{Feature: "formula-validation", Enabled: true},
			},
		},
		{
			Name:        "presentation-design",
			Description: "Designing PowerPoint slide decks with clear visual structure",
			Prompt: "You are building a slide deck. One idea per slide, minimal text, " +
				"and a consistent layout across the deck.",
			RequiredTools: []string{"ppt_create", "ppt_add_slide", "ppt_write_text"},
			Modifications: []core.Modification{
				core.AddInstruction{Text: "Open with an agenda slide and close with a summary slide."},
			},
		},
	}
}
