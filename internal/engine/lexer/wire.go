package lexer

import "encoding/json"

// Sentinels of the wire format.
const (
	WireAbsent = -1
	WireMeta   = -2
)

// WireImport is the external shape of an Import: n, s, e, ss, se, d, a.
type WireImport struct {
	N  *string `json:"n,omitempty"`
	S  int     `json:"s"`
	E  int     `json:"e"`
	SS int     `json:"ss"`
	SE int     `json:"se"`
	D  int     `json:"d"`
	A  int     `json:"a"`
}

type WireExport struct {
	S  int     `json:"s"`
	E  int     `json:"e"`
	LS int     `json:"ls"`
	LE int     `json:"le"`
	N  *string `json:"n,omitempty"`
	LN *string `json:"ln,omitempty"`
}

type WireOutput struct {
	Imports         []WireImport `json:"imports"`
	Exports         []WireExport `json:"exports"`
	Facade          bool         `json:"facade"`
	HasModuleSyntax bool         `json:"hasModuleSyntax"`
}

// WireInput is one entry of a batch request.
type WireInput struct {
	SourceText string `json:"sourceText"`
	FilePath   string `json:"filePath"`
}

func ToWire(r *Result) WireOutput {
	out := WireOutput{
		Imports:         make([]WireImport, 0, len(r.Imports)),
		Exports:         make([]WireExport, 0, len(r.Exports)),
		Facade:          r.Facade,
		HasModuleSyntax: r.HasModuleSyntax,
	}
	for _, imp := range r.Imports {
		w := WireImport{
			N:  imp.Name,
			S:  imp.Start,
			E:  imp.End,
			SS: imp.StatementStart,
			SE: imp.StatementEnd,
			D:  WireAbsent,
			A:  positionToWire(imp.Attributes),
		}
		switch imp.Kind {
		case ImportMeta:
			w.D = WireMeta
		case ImportDynamic:
			w.D = positionToWire(imp.DynamicStart)
		}
		out.Imports = append(out.Imports, w)
	}
	for _, exp := range r.Exports {
		name := exp.Name
		w := WireExport{S: exp.Start, E: exp.End, LS: WireAbsent, LE: WireAbsent, N: &name}
		if exp.Local != nil {
			local := exp.Local.Name
			w.LN = &local
			w.LS = exp.Local.Start
			w.LE = exp.Local.End
		}
		out.Exports = append(out.Exports, w)
	}
	return out
}

// FromWire rebuilds a Result from its wire shape.
func FromWire(w WireOutput) *Result {
	res := &Result{
		Imports:         make([]Import, 0, len(w.Imports)),
		Exports:         make([]Export, 0, len(w.Exports)),
		Facade:          w.Facade,
		HasModuleSyntax: w.HasModuleSyntax,
	}
	for _, wi := range w.Imports {
		imp := Import{
			Name:           wi.N,
			Start:          wi.S,
			End:            wi.E,
			StatementStart: wi.SS,
			StatementEnd:   wi.SE,
			Attributes:     positionFromWire(wi.A),
		}
		switch {
		case wi.D == WireMeta:
			imp.Kind = ImportMeta
		case wi.D >= 0:
			imp.Kind = ImportDynamic
			imp.DynamicStart = At(wi.D)
		}
		res.Imports = append(res.Imports, imp)
	}
	for _, we := range w.Exports {
		exp := Export{Start: we.S, End: we.E}
		if we.N != nil {
			exp.Name = *we.N
		}
		if we.LN != nil && we.LS >= 0 {
			exp.Local = &Binding{Name: *we.LN, Start: we.LS, End: we.LE}
		}
		res.Exports = append(res.Exports, exp)
	}
	return res
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToWire(r))
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var w WireOutput
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = *FromWire(w)
	return nil
}

func positionToWire(p Position) int {
	if !p.Valid {
		return WireAbsent
	}
	return p.Offset
}

func positionFromWire(v int) Position {
	if v < 0 {
		return Position{}
	}
	return At(v)
}
