package dataimport

import (
	"context"
	"strings"

	"github.com/mugiliam/hatchworkbench/internal/apperrors"
	"github.com/mugiliam/hatchworkbench/internal/rsymbol"
	"github.com/mugiliam/hatchworkbench/internal/schemavalidator"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"github.com/rs/zerolog/log"
)

const defaultVarname = "dataset"

// Synthesize renders a call to baselineLabel that reads request.File,
// passing only the arguments whose value differs from baseline. When
// targetVariable is not empty the call is assigned to it. targetVariable must
// already have passed rsymbol.ValidateTargetIdentifier.
func Synthesize(request types.ImportRequest, baseline types.FormatProfile, baselineLabel string, targetVariable string) string {
	var code strings.Builder
	if targetVariable != "" {
		code.WriteString(rsymbol.ToSymbolName(targetVariable))
		code.WriteString(" <- ")
	}
	code.WriteString(baselineLabel)
	code.WriteByte('(')
	code.WriteString(rsymbol.TextToLiteral(request.File))
	if request.Header != baseline.Header {
		code.WriteString(", header=")
		code.WriteString(rsymbol.BoolLiteral(request.Header))
	}
	if request.Sep != baseline.Sep {
		code.WriteString(", sep=")
		code.WriteString(rsymbol.TextToLiteral(request.Sep))
	}
	if request.Quote != baseline.Quote {
		code.WriteString(", quote=")
		code.WriteString(rsymbol.TextToLiteral(request.Quote))
	}
	code.WriteByte(')')
	return code.String()
}

// DefaultVarname derives a variable name from the file name of path.
func DefaultVarname(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if strings.TrimSpace(name) == "" {
		return defaultVarname
	}
	return name
}

// ImportCommand is the result of turning an ImportRequest into console code.
type ImportCommand struct {
	Baseline string `json:"baseline"`
	Varname  string `json:"varname"`
	Call     string `json:"call"`
	Code     string `json:"code"`
}

// Synthesizer picks baselines from a fixed table. It holds no mutable state
// and is safe for concurrent use.
type Synthesizer struct {
	baselines Baselines
}

func NewSynthesizer(baselines Baselines) *Synthesizer {
	if len(baselines) == 0 {
		baselines = DefaultBaselines()
	}
	return &Synthesizer{baselines: append(Baselines(nil), baselines...)}
}

func (s *Synthesizer) Baselines() Baselines {
	return append(Baselines(nil), s.baselines...)
}

// Validate rejects requests that cannot be synthesized: a missing file, text
// that cannot be quoted as a literal, or a variable name that cannot be made
// into a symbol.
func (s *Synthesizer) Validate(req *types.ImportRequest) apperrors.Error {
	if strings.TrimSpace(req.File) == "" {
		return ErrMissingFile
	}
	for _, f := range []struct{ name, value string }{
		{"file", req.File},
		{"sep", req.Sep},
		{"quote", req.Quote},
	} {
		if err := rsymbol.ValidateLiteralText(f.value); err != nil {
			return ErrInvalidImportRequest.MsgErr(f.name+" cannot be quoted", err)
		}
	}
	if ves := schemavalidator.ValidateStruct(req); ves != nil {
		return ErrInvalidImportRequest.Err(ves)
	}
	return nil
}

// ImportCode validates req and returns the code that loads the file into a
// variable and opens it in the data viewer.
func (s *Synthesizer) ImportCode(ctx context.Context, req types.ImportRequest) (*ImportCommand, apperrors.Error) {
	if err := s.Validate(&req); err != nil {
		return nil, err
	}
	varname := req.Varname
	if varname == "" {
		varname = DefaultVarname(req.File)
	}
	if err := rsymbol.ValidateTargetIdentifier(varname); err != nil {
		return nil, err
	}

	label := SelectBaseline(req.FormatProfile, s.baselines)
	baseline, ok := s.baselines.Lookup(label)
	if !ok {
		log.Ctx(ctx).Error().Str("baseline", label).Msg("selected baseline is not in the table")
		return nil, ErrUnknownBaseline.Msg("unknown baseline profile " + label)
	}

	call := Synthesize(req, baseline, label, "")
	sym := rsymbol.ToSymbolName(varname)
	cmd := &ImportCommand{
		Baseline: label,
		Varname:  varname,
		Call:     call,
		Code:     sym + " <- " + call + "\n  View(" + sym + ")",
	}
	log.Ctx(ctx).Debug().Str("baseline", label).Str("varname", varname).Msg("synthesized import command")
	return cmd, nil
}
