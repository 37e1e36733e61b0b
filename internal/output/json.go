package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// newEncoder keeps accented text and "&" readable in the output.
func newEncoder(w io.Writer, indent string) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc
}

// JSONWriter buffers results and writes them as one JSON value on Flush:
// the result itself when there is exactly one, an array otherwise.
type JSONWriter struct {
	w      *bufio.Writer
	indent string
	items  []any
}

// NewJSONWriter creates a JSON writer. indent is ignored unless pretty.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	if !pretty {
		indent = ""
	}
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		indent: indent,
	}
}

// Write buffers a result.
func (w *JSONWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

// WriteAll buffers several results.
func (w *JSONWriter) WriteAll(data []any) error {
	w.items = append(w.items, data...)
	return nil
}

// Flush encodes the buffered results and clears the buffer.
func (w *JSONWriter) Flush() error {
	if len(w.items) == 0 {
		return w.w.Flush()
	}

	var value any = w.items
	if len(w.items) == 1 {
		value = w.items[0]
	}
	if err := newEncoder(w.w, w.indent).Encode(value); err != nil {
		return err
	}
	w.items = w.items[:0]
	return w.w.Flush()
}

// Close flushes.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes one compact JSON result per line as soon as it is
// written, so long runs can be tailed.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{w: bw, enc: newEncoder(bw, "")}
}

// Write encodes data as a single line.
func (w *JSONLWriter) Write(data any) error {
	if err := w.enc.Encode(data); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes each item on its own line.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
