package pdf

import (
	"math"
	"strconv"
)

// contentScan is what one pass over a page's content stream yields:
// rectangle paths with the colors they were painted in, and the fill color
// in effect at every text-show operator. Coordinates are raw PDF user
// space, bottom-origin; the reader flips them into page coordinates.
type contentScan struct {
	Rects     []scannedRect
	TextFills [][3]float64
}

// scannedRect is a rectangle subpath plus the paint applied to it. A rect
// can be both filled and stroked (b/B operators).
type scannedRect struct {
	X, Y, W, H  float64
	FillColor   *[3]float64
	StrokeColor *[3]float64
}

// graphicsState is the slice of PDF graphics state the scan cares about.
// Colors are normalized to RGB triples in 0..1 regardless of the source
// color operator.
type graphicsState struct {
	fill   [3]float64
	stroke [3]float64
}

// pathPoint is a position in raw content-stream coordinates.
type pathPoint struct {
	x, y float64
}

// pendingPath accumulates the current path between construction and paint
// operators: explicit rectangles plus straight segments from m/l/h, which
// many generators use to draw table rules instead of re.
type pendingPath struct {
	rects    []scannedRect
	segments [][2]pathPoint
	current  pathPoint
	start    pathPoint
}

func (p *pendingPath) moveTo(pt pathPoint) {
	p.current = pt
	p.start = pt
}

func (p *pendingPath) lineTo(pt pathPoint) {
	p.segments = append(p.segments, [2]pathPoint{p.current, pt})
	p.current = pt
}

func (p *pendingPath) close() {
	if p.current != p.start {
		p.segments = append(p.segments, [2]pathPoint{p.current, p.start})
	}
	p.current = p.start
}

func (p *pendingPath) reset() {
	p.rects = p.rects[:0]
	p.segments = p.segments[:0]
}

// scanContent interprets enough of a content stream to recover drawn
// rectangles and text paint colors. It tracks the q/Q state stack, the
// device color operators, and straight path construction; everything else
// is tokenized and discarded. Malformed streams degrade to partial or
// empty results, never errors.
func scanContent(data []byte) contentScan {
	var scan contentScan

	state := graphicsState{}
	var stack []graphicsState
	var operands []float64
	var path pendingPath

	tok := tokenizer{data: data}
	for {
		kind, op, num := tok.next()
		if kind == tokEOF {
			break
		}

		switch kind {
		case tokNumber:
			operands = append(operands, num)
			continue
		case tokOther:
			// Names, strings, array and dict delimiters carry no operands
			// the scan uses.
			continue
		}

		switch op {
		case "q":
			stack = append(stack, state)
		case "Q":
			if len(stack) > 0 {
				state = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
		case "g":
			if c, ok := grayOperand(operands); ok {
				state.fill = c
			}
		case "G":
			if c, ok := grayOperand(operands); ok {
				state.stroke = c
			}
		case "rg":
			if c, ok := rgbOperand(operands); ok {
				state.fill = c
			}
		case "RG":
			if c, ok := rgbOperand(operands); ok {
				state.stroke = c
			}
		case "k":
			if c, ok := cmykOperand(operands); ok {
				state.fill = c
			}
		case "K":
			if c, ok := cmykOperand(operands); ok {
				state.stroke = c
			}
		case "sc", "scn":
			if c, ok := anyColorOperand(operands); ok {
				state.fill = c
			}
		case "SC", "SCN":
			if c, ok := anyColorOperand(operands); ok {
				state.stroke = c
			}
		case "m":
			if n := len(operands); n >= 2 {
				path.moveTo(pathPoint{operands[n-2], operands[n-1]})
			}
		case "l":
			if n := len(operands); n >= 2 {
				path.lineTo(pathPoint{operands[n-2], operands[n-1]})
			}
		case "c", "v", "y":
			// Curves are not rulings; just track the endpoint.
			if n := len(operands); n >= 2 {
				path.current = pathPoint{operands[n-2], operands[n-1]}
			}
		case "h":
			path.close()
		case "re":
			if n := len(operands); n >= 4 {
				path.rects = append(path.rects, scannedRect{
					X: operands[n-4], Y: operands[n-3],
					W: operands[n-2], H: operands[n-1],
				})
				path.moveTo(pathPoint{operands[n-4], operands[n-3]})
			}
		case "f", "F", "f*":
			flushPath(&scan, &path, &state, true, false)
		case "s":
			path.close()
			flushPath(&scan, &path, &state, false, true)
		case "S":
			flushPath(&scan, &path, &state, false, true)
		case "b", "b*":
			path.close()
			flushPath(&scan, &path, &state, true, true)
		case "B", "B*":
			flushPath(&scan, &path, &state, true, true)
		case "n":
			path.reset()
		case "Tj", "TJ", "'", "\"":
			scan.TextFills = append(scan.TextFills, state.fill)
		case "BI":
			tok.skipInlineImage()
		}

		operands = operands[:0]
	}

	return scan
}

// axisTolerance is how far a path segment's endpoints may differ on one
// axis while still counting as a horizontal or vertical rule.
const axisTolerance = 1.0

// flushPath attaches the active colors to the accumulated path and moves
// it into the scan. Rectangles carry fill and stroke as painted; straight
// axis-aligned segments become degenerate stroked rects, since only their
// positions matter downstream. Diagonal segments are discarded.
func flushPath(scan *contentScan, path *pendingPath, state *graphicsState, fill, stroke bool) {
	for _, r := range path.rects {
		if fill {
			c := state.fill
			r.FillColor = &c
		}
		if stroke {
			c := state.stroke
			r.StrokeColor = &c
		}
		scan.Rects = append(scan.Rects, r)
	}
	if stroke {
		for _, seg := range path.segments {
			dx := math.Abs(seg[1].x - seg[0].x)
			dy := math.Abs(seg[1].y - seg[0].y)
			if dx > axisTolerance && dy > axisTolerance {
				continue
			}
			c := state.stroke
			scan.Rects = append(scan.Rects, scannedRect{
				X:           math.Min(seg[0].x, seg[1].x),
				Y:           math.Min(seg[0].y, seg[1].y),
				W:           dx,
				H:           dy,
				StrokeColor: &c,
			})
		}
	}
	path.reset()
}

func grayOperand(operands []float64) ([3]float64, bool) {
	if len(operands) < 1 {
		return [3]float64{}, false
	}
	v := operands[len(operands)-1]
	return [3]float64{v, v, v}, true
}

func rgbOperand(operands []float64) ([3]float64, bool) {
	if len(operands) < 3 {
		return [3]float64{}, false
	}
	n := len(operands)
	return [3]float64{operands[n-3], operands[n-2], operands[n-1]}, true
}

func cmykOperand(operands []float64) ([3]float64, bool) {
	if len(operands) < 4 {
		return [3]float64{}, false
	}
	n := len(operands)
	c, m, y, k := operands[n-4], operands[n-3], operands[n-2], operands[n-1]
	return [3]float64{
		(1 - c) * (1 - k),
		(1 - m) * (1 - k),
		(1 - y) * (1 - k),
	}, true
}

// anyColorOperand interprets sc/scn operands by arity: one component is
// gray, three are RGB, four are CMYK. Pattern names leave no numeric
// operands and are ignored.
func anyColorOperand(operands []float64) ([3]float64, bool) {
	switch len(operands) {
	case 1:
		return grayOperand(operands)
	case 3:
		return rgbOperand(operands)
	case 4:
		return cmykOperand(operands)
	default:
		return [3]float64{}, false
	}
}

// Token kinds produced by the tokenizer.
const (
	tokEOF = iota
	tokNumber
	tokOperator
	tokOther
)

// tokenizer splits a content stream into numbers, operators, and skipped
// syntax (names, strings, arrays, dicts, comments). It never fails; bytes
// it cannot place are consumed as tokOther.
type tokenizer struct {
	data []byte
	pos  int
}

func (t *tokenizer) next() (kind int, op string, num float64) {
	t.skipWhitespace()
	if t.pos >= len(t.data) {
		return tokEOF, "", 0
	}

	c := t.data[t.pos]
	switch {
	case c == '%':
		t.skipComment()
		return t.next()
	case c == '(':
		t.skipString()
		return tokOther, "", 0
	case c == '<':
		if t.pos+1 < len(t.data) && t.data[t.pos+1] == '<' {
			t.pos += 2 // dict open; contents tokenize normally
		} else {
			t.skipHexString()
		}
		return tokOther, "", 0
	case c == '>':
		if t.pos+1 < len(t.data) && t.data[t.pos+1] == '>' {
			t.pos += 2
		} else {
			t.pos++
		}
		return tokOther, "", 0
	case c == '[' || c == ']' || c == '{' || c == '}':
		t.pos++
		return tokOther, "", 0
	case c == '/':
		t.skipName()
		return tokOther, "", 0
	case c == '\'' || c == '"':
		t.pos++
		return tokOperator, string(c), 0
	case isNumberStart(c):
		return t.readNumber()
	default:
		return t.readOperator()
	}
}

func (t *tokenizer) skipWhitespace() {
	for t.pos < len(t.data) && isWhitespace(t.data[t.pos]) {
		t.pos++
	}
}

func (t *tokenizer) skipComment() {
	for t.pos < len(t.data) && t.data[t.pos] != '\n' && t.data[t.pos] != '\r' {
		t.pos++
	}
}

// skipString consumes a literal string, honoring nested parentheses and
// backslash escapes.
func (t *tokenizer) skipString() {
	t.pos++ // opening paren
	depth := 1
	for t.pos < len(t.data) && depth > 0 {
		switch t.data[t.pos] {
		case '\\':
			t.pos++ // escaped byte
		case '(':
			depth++
		case ')':
			depth--
		}
		t.pos++
	}
}

func (t *tokenizer) skipHexString() {
	t.pos++ // opening angle
	for t.pos < len(t.data) && t.data[t.pos] != '>' {
		t.pos++
	}
	if t.pos < len(t.data) {
		t.pos++
	}
}

func (t *tokenizer) skipName() {
	t.pos++ // leading slash
	for t.pos < len(t.data) && isRegular(t.data[t.pos]) {
		t.pos++
	}
}

func (t *tokenizer) readNumber() (int, string, float64) {
	start := t.pos
	for t.pos < len(t.data) && isNumberPart(t.data[t.pos]) {
		t.pos++
	}
	v, err := strconv.ParseFloat(string(t.data[start:t.pos]), 64)
	if err != nil {
		return tokOther, "", 0
	}
	return tokNumber, "", v
}

func (t *tokenizer) readOperator() (int, string, float64) {
	start := t.pos
	for t.pos < len(t.data) && isOperatorPart(t.data[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		// Unplaceable byte; consume it so the scan advances.
		t.pos++
		return tokOther, "", 0
	}
	return tokOperator, string(t.data[start:t.pos]), 0
}

// skipInlineImage consumes an inline image: everything after BI through the
// EI terminator. The binary payload after ID can contain any bytes, so the
// terminator must be whitespace-delimited.
func (t *tokenizer) skipInlineImage() {
	for t.pos+1 < len(t.data) {
		if t.data[t.pos] == 'E' && t.data[t.pos+1] == 'I' {
			before := t.pos == 0 || isWhitespace(t.data[t.pos-1])
			after := t.pos+2 >= len(t.data) || isWhitespace(t.data[t.pos+2])
			if before && after {
				t.pos += 2
				return
			}
		}
		t.pos++
	}
	t.pos = len(t.data)
}

func isWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	default:
		return false
	}
}

func isNumberStart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func isNumberPart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func isOperatorPart(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '*' || c == '0' || c == '1':
		// Covers the starred forms (f*, B*, W*) and d0/d1.
		return true
	default:
		return false
	}
}

// isRegular reports whether c can appear inside a PDF name token.
func isRegular(c byte) bool {
	if isWhitespace(c) {
		return false
	}
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	default:
		return true
	}
}
