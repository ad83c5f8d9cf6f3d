package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/thoreinstein/pyscout/internal/errors"
)

// The wire format frames each JSON payload with MIME-style headers:
//
//	Content-Length: 52\r\n
//	\r\n
//	{"jsonrpc":"2.0",...}
//
// Only Content-Length is significant; other headers are skipped.

const maxMessageSize = 16 << 20

// readMessage reads one framed payload.
func readMessage(r *bufio.Reader) ([]byte, error) {
	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, errors.Newf("malformed header line %q", line)
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			length, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, errors.Wrap(err, "parsing Content-Length")
			}
		}
	}
	if length < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	if length > maxMessageSize {
		return nil, errors.Newf("message of %d bytes exceeds limit", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// writeMessage frames and writes one payload. Callers serialize
// access; the codec itself does not lock.
func writeMessage(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding message")
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(payload)); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}
