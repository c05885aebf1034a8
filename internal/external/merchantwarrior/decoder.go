package merchantwarrior

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"unicode"

	"MerchantWarriorGateway/internal/domain/gateway"

	"golang.org/x/net/html/charset"
)

const (
	invalidResponseMessage = "Invalid gateway response"
	approvedResponseCode   = "0"
)

var utf8BOM = []byte("\ufeff")

// decodeResponse flattens an XML body into one entry per leaf element, keyed
// by the snake_cased tag name. Bodies without a root element decode to a
// single response_message entry.
func decodeResponse(body []byte) (map[string]string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(body, utf8BOM)))
	dec.CharsetReader = charset.NewReaderLabel

	type element struct {
		name     string
		text     strings.Builder
		hasChild bool
	}

	var stack []*element
	params := map[string]string{}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return invalidResponse(), false
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) > 0 {
				stack[len(stack)-1].hasChild = true
			}
			stack = append(stack, &element{name: t.Name.Local})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return invalidResponse(), false
			}
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return params, true
			}
			if !el.hasChild {
				params[underscore(el.name)] = el.text.String()
			}
		}
	}

	// no root element, or the root was never closed
	return invalidResponse(), false
}

func invalidResponse() map[string]string {
	return map[string]string{"response_message": invalidResponseMessage}
}

// newResponse classifies decoded params into the normalized result.
func newResponse(params map[string]string, test bool) gateway.Response {
	return gateway.Response{
		Success:       params["response_code"] == approvedResponseCode,
		Message:       params["response_message"],
		Params:        params,
		Test:          test,
		Authorization: firstNonEmpty(params["card_id"], params["transaction_id"]),
	}
}

// underscore converts a camelCase or PascalCase tag into snake_case. A word
// boundary is a lower-case letter or digit followed by an upper-case letter,
// or the last capital of an upper-case run that is followed by a lower-case
// letter. Hyphens become underscores.
func underscore(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		if r == '-' {
			b.WriteByte('_')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
