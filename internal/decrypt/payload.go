package decrypt

import (
	"bytes"
	"encoding/json"

	"github.com/actuallystonmai/aniweb/internal/domain"
)

type sourceFile struct {
	File string `json:"file"`
}

// sourceFiles accepts the decoder's list form and the mirrors' single
// object form.
type sourceFiles []sourceFile

func (s *sourceFiles) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = nil
		return nil
	case b[0] == '[':
		var list []sourceFile
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*s = list
		return nil
	case b[0] == '"':
		var file string
		if err := json.Unmarshal(b, &file); err != nil {
			return err
		}
		*s = sourceFiles{{File: file}}
		return nil
	default:
		var one sourceFile
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*s = sourceFiles{one}
		return nil
	}
}

type sourcesPayload struct {
	Sources sourceFiles     `json:"sources"`
	Tracks  []domain.Track  `json:"tracks"`
	Intro   *domain.Segment `json:"intro"`
	Outro   *domain.Segment `json:"outro"`
}

func (p *sourcesPayload) file() string {
	if p == nil || len(p.Sources) == 0 {
		return ""
	}
	return p.Sources[0].File
}
