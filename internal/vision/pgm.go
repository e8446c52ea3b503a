package vision

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ReadPGM loads a binary (P5) PGM file with 8-bit samples, the exchange
// format for static background images.
func ReadPGM(path string) (*Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic, err := pgmToken(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if magic != "P5" {
		return nil, fmt.Errorf("%s: not a binary PGM (magic %q)", path, magic)
	}

	var w, h, maxval int
	for _, dst := range []*int{&w, &h, &maxval} {
		tok, err := pgmToken(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, err := fmt.Sscanf(tok, "%d", dst); err != nil {
			return nil, fmt.Errorf("%s: bad header field %q", path, tok)
		}
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%s: bad dimensions %dx%d", path, w, h)
	}
	if maxval != 255 {
		return nil, fmt.Errorf("%s: only 8-bit PGM supported, maxval %d", path, maxval)
	}

	g := NewGray(w, h)
	if _, err := io.ReadFull(r, g.Pix); err != nil {
		return nil, fmt.Errorf("%s: short pixel data: %w", path, err)
	}
	return g, nil
}

// WritePGM stores a grayscale image as binary (P5) PGM.
func WritePGM(path string, g *Gray) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P5\n%d %d\n255\n", g.W, g.H)
	w.Write(g.Pix)
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// pgmToken reads one whitespace-delimited header token, skipping
// # comments.
func pgmToken(r *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case b == '#':
			if _, err := r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}
