package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

type Align byte

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Character size for GS !
const (
	FontNormal byte = 0x00
	FontDouble byte = 0x11
)

const defaultWidth = 32

// Document accumulates a receipt as an ESC/POS byte stream. Every method returns
// the document so calls chain.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for paper that fits charWidth columns:
// 32 on 58mm rolls, 48 on 80mm rolls.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = defaultWidth
	}
	d := &Document{width: charWidth}
	return d.command(ESC, '@')
}

func (d *Document) command(b ...byte) *Document {
	d.buf.Write(b)
	return d
}

func (d *Document) line(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// Width is the number of columns per printed line
func (d *Document) Width() int { return d.width }

func (d *Document) LineFeed() *Document { return d.command(LF) }

func (d *Document) FeedLines(n int) *Document {
	if n > 0 {
		d.buf.Write(bytes.Repeat([]byte{LF}, n))
	}
	return d
}

func (d *Document) SetAlign(a Align) *Document { return d.command(ESC, 'a', byte(a)) }

func (d *Document) SetBold(on bool) *Document {
	if on {
		return d.command(ESC, 'E', 1)
	}
	return d.command(ESC, 'E', 0)
}

func (d *Document) SetFontSize(size byte) *Document { return d.command(GS, '!', size) }

// Text prints s on its own line, cut to the paper width
func (d *Document) Text(s string) *Document { return d.line(Truncate(s, d.width)) }

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

func (d *Document) Separator(char byte) *Document {
	return d.line(strings.Repeat(string(char), d.width))
}

// KeyValue prints key flush left and value flush right
func (d *Document) KeyValue(key, value string) *Document {
	return d.line(d.columns(key, value))
}

// ItemLine prints "3x Milk" with the line total flush right. The name is cut
// with "~" so the total always fits.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	prefix := fmt.Sprintf("%dx ", qty)
	name = Truncate(name, d.width-len(prefix)-len(total)-1)
	return d.line(d.columns(prefix+name, total))
}

func (d *Document) columns(left, right string) string {
	gap := d.width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (d *Document) PartialCut() *Document { return d.command(GS, 'V', 0x01) }

func (d *Document) Bytes() []byte { return d.buf.Bytes() }

// Truncate keeps at most n bytes of s, replacing anything outside printable ASCII
// with '?'. A cut string ends in '~'.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			r = '?'
		}
		b.WriteByte(byte(r))
	}
	clean := b.String()
	if len(clean) <= n {
		return clean
	}
	return clean[:n-1] + "~"
}
