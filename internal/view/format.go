package view

import (
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":   Money,
		"number":  Number,
		"percent": Percent,
	}
}

// Printers are cheap and not documented as safe for concurrent use, so each call gets its own.
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

func Money(v float64) string {
	return "$" + printer().Sprintf("%.2f", v)
}

func Number(v any) string {
	switch n := v.(type) {
	case int:
		return printer().Sprintf("%d", n)
	case int64:
		return printer().Sprintf("%d", n)
	case uint:
		return printer().Sprintf("%d", n)
	default:
		return fmt.Sprint(v)
	}
}

func Percent(v int) string {
	return fmt.Sprintf("%d%%", v)
}

// QRDataURI encodes content as a PNG QR code that can be inlined in an img tag.
func QRDataURI(content string, size int) (template.URL, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("qrcode.Encode -> %w", err)
	}

	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
