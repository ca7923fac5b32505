package server

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/jeomja"
	"github.com/reoring/jeomja/codec"
	"github.com/reoring/jeomja/render"
)

// codeInvalidRequest marks a request body that names no usable input.
const codeInvalidRequest = "invalid_request"

type encodeRequest struct {
	Text          string `json:"text"`
	Abbreviations *bool  `json:"abbreviations,omitempty"`
	Normalize     *bool  `json:"normalize,omitempty"`
}

type encodeResponse struct {
	Cells   []string   `json:"cells"`
	Binary  string     `json:"binary"`
	Unicode string     `json:"unicode"`
	Dots    string     `json:"dots"`
	Issues  []IssueDTO `json:"issues,omitempty"`
}

// cellsInput carries a sequence in exactly one external form.
type cellsInput struct {
	Binary  *string `json:"binary,omitempty"`
	Unicode *string `json:"unicode,omitempty"`
	Dots    *string `json:"dots,omitempty"`
}

type decodeResponse struct {
	Text   string     `json:"text"`
	Issues []IssueDTO `json:"issues,omitempty"`
}

type validateRequest struct {
	Binary string `json:"binary"`
}

type validateResponse struct {
	Valid  bool       `json:"valid"`
	Issues []IssueDTO `json:"issues,omitempty"`
}

type renderRequest struct {
	Text *string `json:"text,omitempty"`
	cellsInput
}

type ambiguityDTO struct {
	Cell      string `json:"cell"`
	Symbol    string `json:"symbol"`
	Alternate string `json:"alternate"`
	Rule      string `json:"rule"`
}

type tablesResponse struct {
	Name       string            `json:"name"`
	Categories map[string]int    `json:"categories"`
	Controls   map[string]string `json:"controls"`
	Ambiguous  []ambiguityDTO    `json:"ambiguous"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "tables": s.store.Tables().Name()})
}

func (s *Server) badRequest(c echo.Context, iss jeomja.Issues) error {
	return c.JSON(http.StatusBadRequest, ErrorPayload(TranslatorFromContext(c.Request().Context()), iss))
}

func (s *Server) encode(c echo.Context) error {
	var req encodeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	opt := s.cfg.Encode.Opt()
	if req.Abbreviations != nil {
		opt.Abbreviations = *req.Abbreviations
	}
	if req.Normalize != nil {
		opt.Normalize = *req.Normalize
	}
	seq, report := jeomja.NewEncoder(s.store.Tables(), opt).Encode(req.Text)

	cells := make([]string, len(seq))
	for i, cell := range seq {
		cells[i] = cell.Bits()
	}
	return c.JSON(http.StatusOK, encodeResponse{
		Cells:   cells,
		Binary:  seq.Bits(),
		Unicode: seq.Unicode(),
		Dots:    seq.Dots(),
		Issues:  s.report(c, report),
	})
}

func (s *Server) decode(c echo.Context) error {
	var req cellsInput
	if err := c.Bind(&req); err != nil {
		return err
	}
	seq, iss := parseCells(req)
	if iss != nil {
		return s.badRequest(c, iss)
	}
	tr := TranslatorFromContext(c.Request().Context())
	text, report := jeomja.NewDecoder(s.store.Tables(), jeomja.DecodeOpt{Translator: tr}).Decode(seq)
	return c.JSON(http.StatusOK, decodeResponse{Text: text, Issues: s.report(c, report)})
}

func (s *Server) validate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	err := jeomja.ValidateBinary(req.Binary)
	if err == nil {
		return c.JSON(http.StatusOK, validateResponse{Valid: true})
	}
	iss, _ := jeomja.AsIssues(err)
	return c.JSON(http.StatusOK, validateResponse{Valid: false, Issues: s.report(c, iss)})
}

func (s *Server) render(c echo.Context) error {
	var req renderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	var seq jeomja.Sequence
	if req.Text != nil {
		if req.Binary != nil || req.Unicode != nil || req.Dots != nil {
			return s.badRequest(c, jeomja.Issues{{Path: "/", Code: codeInvalidRequest, Message: "text and cells are mutually exclusive", Offset: -1}})
		}
		seq, _ = jeomja.NewEncoder(s.store.Tables(), s.cfg.Encode.Opt()).Encode(*req.Text)
	} else {
		var iss jeomja.Issues
		if seq, iss = parseCells(req.cellsInput); iss != nil {
			return s.badRequest(c, iss)
		}
	}
	if len(seq) == 0 {
		return s.badRequest(c, jeomja.Issues{{Path: "/", Code: jeomja.CodeEmpty, Message: "nothing to render", Offset: -1}})
	}

	format := render.PNG
	if f := c.QueryParam("format"); f != "" {
		format = render.Format(f)
	}
	img, err := render.Draw(seq, s.cfg.Render.Geometry())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	var buf bytes.Buffer
	if err := render.Encode(&buf, img, format); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return c.Blob(http.StatusOK, "image/"+string(format), buf.Bytes())
}

func (s *Server) tables(c echo.Context) error {
	ts := s.store.Tables()
	resp := tablesResponse{
		Name:       ts.Name(),
		Categories: make(map[string]int),
		Controls:   make(map[string]string),
		Ambiguous:  []ambiguityDTO{},
	}
	for _, cat := range jeomja.Categories() {
		resp.Categories[cat.String()] = ts.Table(cat).Len()
	}
	ctl := ts.Controls()
	for name, cell := range map[string]jeomja.Cell{
		"number": ctl.Number, "letter": ctl.Letter, "symbol": ctl.Symbol,
		"terminator": ctl.Terminator, "no_final": ctl.NoFinal,
	} {
		if cell != jeomja.Unknown {
			resp.Controls[name] = cell.Dots()
		}
	}
	for _, a := range ts.Ambiguities() {
		resp.Ambiguous = append(resp.Ambiguous, ambiguityDTO{Cell: a.Cell.Dots(), Symbol: a.Symbol, Alternate: a.Alternate, Rule: string(a.Rule)})
	}
	return c.JSON(http.StatusOK, resp)
}

// conflicts reports conflicts in the active table data.
func (s *Server) conflicts(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"conflicts": s.issueList(c, jeomja.Conflicts(s.store.Data()))})
}

// checkTables reports conflicts in a YAML table document sent as the body.
func (s *Server) checkTables(c echo.Context) error {
	d, err := jeomja.ParseTableData(c.Request().Body)
	if err != nil {
		iss, ok := jeomja.AsIssues(err)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
		return c.JSON(http.StatusOK, map[string]any{"conflicts": s.issueList(c, iss)})
	}
	return c.JSON(http.StatusOK, map[string]any{"conflicts": s.issueList(c, jeomja.Conflicts(d))})
}

func (s *Server) report(c echo.Context, iss jeomja.Issues) []IssueDTO {
	if len(iss) == 0 {
		return nil
	}
	return issuesDTO(TranslatorFromContext(c.Request().Context()), iss)
}

// issueList is report without omission: an empty list stays [].
func (s *Server) issueList(c echo.Context, iss jeomja.Issues) []IssueDTO {
	return issuesDTO(TranslatorFromContext(c.Request().Context()), iss)
}

func parseCells(in cellsInput) (jeomja.Sequence, jeomja.Issues) {
	var name, value string
	n := 0
	for _, f := range []struct {
		name string
		v    *string
	}{{"binary", in.Binary}, {"unicode", in.Unicode}, {"dots", in.Dots}} {
		if f.v != nil {
			name, value = f.name, *f.v
			n++
		}
	}
	if n != 1 {
		return nil, jeomja.Issues{{Path: "/", Code: codeInvalidRequest, Message: "exactly one of binary, unicode or dots is required", Offset: -1}}
	}
	cd, err := codec.ByName(name)
	if err != nil {
		return nil, jeomja.Issues{{Path: "/" + name, Code: codeInvalidRequest, Message: err.Error(), Offset: -1}}
	}
	seq, err := cd.Parse(value)
	if err != nil {
		if iss, ok := jeomja.AsIssues(err); ok {
			return nil, iss
		}
		return nil, jeomja.Issues{{Path: "/" + name, Code: jeomja.CodeInvalidDot, Message: err.Error(), Cause: err, Offset: -1}}
	}
	return seq, nil
}
