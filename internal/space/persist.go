package space

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/happyhackingspace/semspace/internal/factor"
	"github.com/happyhackingspace/semspace/internal/transform"
	"github.com/happyhackingspace/semspace/internal/vectorizer"
	"gonum.org/v1/gonum/mat"
)

// FormatVersion identifies the text encoding written by Save.
const FormatVersion = "semspace/1"

const docPrefix = "#doc"

type header struct {
	Format         string          `json:"format"`
	Terms          int             `json:"terms"`
	Contexts       int             `json:"contexts"`
	K              int             `json:"k"`
	Transform      string          `json:"transform"`
	Factorization  string          `json:"factorization"`
	TransformState json.RawMessage `json:"transform_state,omitempty"`
	BasisState     json.RawMessage `json:"basis_state,omitempty"`
	Documents      int             `json:"documents"`
	DocumentDims   int             `json:"document_dims,omitempty"`
	DocumentIDs    []string        `json:"document_ids,omitempty"`
}

// Save writes a built space as a JSON header line followed by one line per
// term ("quoted term<TAB>v1 v2 ...") and one line per retained document
// ("#doc<TAB>i<TAB>v1 v2 ...").
func (s *Space) Save(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.built(); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	tstate, err := json.Marshal(s.weighting)
	if err != nil {
		return fmt.Errorf("save: transform state: %w", err)
	}
	bstate, err := json.Marshal(s.basis)
	if err != nil {
		return fmt.Errorf("save: basis state: %w", err)
	}
	rows, k := s.words.Dims()
	h := header{
		Format:         FormatVersion,
		Terms:          rows,
		Contexts:       s.contexts,
		K:              k,
		Transform:      s.weighting.Name(),
		Factorization:  s.basis.Name(),
		TransformState: tstate,
		BasisState:     bstate,
		DocumentIDs:    s.docIDs,
	}
	if s.docs != nil {
		h.Documents, h.DocumentDims = s.docs.Dims()
	}

	bw := bufio.NewWriter(w)
	hdr, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("save: header: %w", err)
	}
	bw.Write(hdr)
	bw.WriteByte('\n')

	row := make([]float64, k)
	for i := range rows {
		term, _ := s.terms.Token(i)
		bw.WriteString(strconv.Quote(term))
		bw.WriteByte('\t')
		writeValues(bw, mat.Row(row, i, s.words))
	}
	docRow := make([]float64, h.DocumentDims)
	for i := range h.Documents {
		bw.WriteString(docPrefix)
		bw.WriteByte('\t')
		bw.WriteString(strconv.Itoa(i))
		bw.WriteByte('\t')
		writeValues(bw, mat.Row(docRow, i, s.docs))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func writeValues(bw *bufio.Writer, vs []float64) {
	for j, v := range vs {
		if j > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	bw.WriteByte('\n')
}

// Load reads a space written by Save. The result is Built and can answer
// vector queries and projections without refactoring.
func Load(r io.Reader, logger *slog.Logger) (*Space, error) {
	br := bufio.NewReader(r)
	line, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("load: header: %w", err)
	}
	var h header
	if err := json.Unmarshal([]byte(line), &h); err != nil {
		return nil, fmt.Errorf("load: header: %w", err)
	}
	if h.Format != FormatVersion {
		return nil, fmt.Errorf("load: unsupported format %q", h.Format)
	}
	if h.Terms < 1 || h.K < 1 || h.Documents < 0 {
		return nil, fmt.Errorf("load: invalid header dimensions")
	}

	weighting, err := transform.Restore(h.Transform, h.TransformState)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	basis, err := factor.Restore(h.Factorization, h.BasisState)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	terms := make([]string, h.Terms)
	words := mat.NewDense(h.Terms, h.K, nil)
	for i := range h.Terms {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("load: term %d: %w", i, err)
		}
		quoted, values, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("load: term %d: missing separator", i)
		}
		if terms[i], err = strconv.Unquote(quoted); err != nil {
			return nil, fmt.Errorf("load: term %d: %w", i, err)
		}
		if err := parseValues(values, words.RawRowView(i)); err != nil {
			return nil, fmt.Errorf("load: term %q: %w", terms[i], err)
		}
	}
	basisMap := vectorizer.NewBasisFrom(terms)
	if basisMap.Len() != h.Terms {
		return nil, fmt.Errorf("load: duplicate terms in vocabulary")
	}

	var docs *mat.Dense
	if h.Documents > 0 {
		if h.DocumentDims < 1 {
			return nil, fmt.Errorf("load: invalid document dimension %d", h.DocumentDims)
		}
		docs = mat.NewDense(h.Documents, h.DocumentDims, nil)
		for i := range h.Documents {
			line, err := readLine(br)
			if err != nil {
				return nil, fmt.Errorf("load: document %d: %w", i, err)
			}
			fields := strings.SplitN(line, "\t", 3)
			if len(fields) != 3 || fields[0] != docPrefix || fields[1] != strconv.Itoa(i) {
				return nil, fmt.Errorf("load: document %d: malformed line", i)
			}
			if err := parseValues(fields[2], docs.RawRowView(i)); err != nil {
				return nil, fmt.Errorf("load: document %d: %w", i, err)
			}
		}
	}

	s := New(Options{Logger: logger, Rank: h.K})
	s.state = Built
	s.terms = basisMap
	s.contexts = h.Contexts
	s.weighting = weighting
	s.basis = basis
	s.docIDs = h.DocumentIDs
	s.words = words
	s.docs = docs
	return s, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

func parseValues(s string, dst []float64) error {
	fields := strings.Fields(s)
	if len(fields) != len(dst) {
		return fmt.Errorf("got %d values, want %d", len(fields), len(dst))
	}
	for j, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return err
		}
		dst[j] = v
	}
	return nil
}
