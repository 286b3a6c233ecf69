package publisher

import (
	"os"

	"github.com/fumiama/go-docx"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

// writeSummaryDoc renders the meeting summary as a docx: title heading,
// overview paragraph, then one section per chapter.
func writeSummaryDoc(path, title string, s *zoombot.Summary) error {
	w := docx.New().WithDefaultTheme()

	w.AddParagraph().AddText(title).Size("32").Bold()
	w.AddParagraph()

	if s.Overview != "" {
		w.AddParagraph().AddText("Overview").Size("28").Bold()
		w.AddParagraph().AddText(s.Overview)
		w.AddParagraph()
	}

	for _, ch := range s.Chapters {
		w.AddParagraph().AddText(ch.Label).Size("28").Bold()
		w.AddParagraph().AddText(ch.Text)
		w.AddParagraph()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
