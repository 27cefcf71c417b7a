package meituan

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var ErrNoBoundary = errors.New("multipart message without boundary")

// ParseEML returns the concatenated text/plain bodies of an RFC 5322 message.
// Attachments and non-text parts are skipped.
func ParseEML(content []byte) (string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse message: %w", err)
	}

	var b strings.Builder
	if err := collectText(&b, textproto.MIMEHeader(msg.Header), msg.Body); err != nil {
		return "", err
	}
	return b.String(), nil
}

func collectText(b *strings.Builder, header textproto.MIMEHeader, body io.Reader) error {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		// RFC 2045 default
		mediaType, params = "text/plain", map[string]string{}
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return ErrNoBoundary
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextRawPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read part: %w", err)
			}
			if isAttachment(part.Header) {
				continue
			}
			if err := collectText(b, part.Header, part); err != nil {
				return err
			}
		}
	}

	if mediaType != "text/plain" {
		return nil
	}

	data, err := io.ReadAll(transferDecoder(header.Get("Content-Transfer-Encoding"), body))
	if err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}
	b.WriteString(decodeCharset(data, params["charset"]))
	b.WriteString("\n")
	return nil
}

func isAttachment(header textproto.MIMEHeader) bool {
	disposition, _, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	return err == nil && disposition == "attachment"
}

func transferDecoder(encoding string, body io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		return quotedprintable.NewReader(body)
	default:
		return body
	}
}

// decodeCharset converts a body to UTF-8. Unknown or undeclared charsets on
// non-UTF-8 content fall back to GB18030, a superset of GBK and GB2312.
func decodeCharset(data []byte, charset string) string {
	if charset != "" {
		if enc, err := htmlindex.Get(charset); err == nil {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(decoded)
			}
		}
	}
	if utf8.Valid(data) {
		return string(data)
	}
	if decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data); err == nil {
		return string(decoded)
	}
	return strings.ToValidUTF8(string(data), "�")
}
