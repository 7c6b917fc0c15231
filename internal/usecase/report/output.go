package report

import (
	"encoding/json"
	"fmt"
	"io"

	"docdiff/internal/domain/entity"
	"docdiff/internal/usecase/summary"
)

// Header precedes the bullet list in text output.
const Header = "Structured Summary of Changes:"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// jsonOutput is the JSON form of a Result.
type jsonOutput struct {
	RunID   string         `json:"run_id"`
	Old     string         `json:"old"`
	New     string         `json:"new"`
	Changes []string       `json:"changes"`
	Summary string         `json:"summary"`
	Bullets []string       `json:"bullets"`
	Report  summary.Report `json:"report"`
}

// Write renders r to w in the given format. The header is only written in
// text output.
func Write(w io.Writer, r *Result, format string, header bool) error {
	switch format {
	case OutputJSON:
		out := jsonOutput{
			RunID:   r.RunID,
			Changes: r.Changes.Lines(),
			Summary: r.Summary,
			Bullets: r.Bullets.Items,
			Report:  r.Report,
		}
		if r.Old != nil {
			out.Old = r.Old.Path
		}
		if r.New != nil {
			out.New = r.New.Path
		}
		if out.Bullets == nil {
			out.Bullets = []string{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode json output: %w", err)
		}
		return nil

	case OutputText, "":
		if header {
			if _, err := fmt.Fprintln(w, Header); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		if _, err := fmt.Fprintln(w, r.Bullets.Render()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("%w: output format %q", entity.ErrInvalidInput, format)
	}
}
