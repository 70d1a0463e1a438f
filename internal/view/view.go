package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/vietanh2810/raffle-web/internal/auth"
	"github.com/vietanh2810/raffle-web/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Flash struct {
	Type    string
	Message string
}

type StatCard struct {
	Title string
	Value string
	Hint  string
}

type SortOption struct {
	Value string
	Label string
}

var SortOptions = []SortOption{
	{Value: domain.SortNewest, Label: "Newest"},
	{Value: domain.SortPriceAsc, Label: "Price: low to high"},
	{Value: domain.SortPriceDesc, Label: "Price: high to low"},
	{Value: domain.SortProgress, Label: "Almost sold out"},
}

// PageData is what the layout sees. Data carries the page specific view model.
type PageData struct {
	Title     string
	Subtitle  string
	Auth      auth.State
	Flashes   []Flash
	CSRFField template.HTML
	Content   template.HTML
	Data      any
}

type HomeView struct {
	Filter      domain.PublicFilter
	Categories  []string
	SortOptions []SortOption
	Items       []domain.PublicItem
}

type ItemView struct {
	Item     domain.PublicItem
	ShareURL string
	QRCode   template.URL
}

type AuthFormView struct {
	Action    string
	Submit    string
	Form      domain.AuthFormData
	CSRFField template.HTML
}

type AccountView struct {
	Stats []StatCard
}

type AdminView struct {
	Stats     []StatCard
	Filter    domain.ItemFilter
	Items     []domain.Item
	CSRFField template.HTML
}

type AdminUsersView struct {
	Users     []domain.User
	CSRFField template.HTML
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("views").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS -> %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Static serves the embedded scripts under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

// Component renders a single named component.
func (r *Renderer) Component(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("r.tmpl.ExecuteTemplate(%s) -> %w", name, err)
	}

	return template.HTML(buf.String()), nil
}

// Page renders the page body first and then wraps it in the layout,
// so a failing page never leaves a half written layout behind.
func (r *Renderer) Page(w io.Writer, page string, data PageData) error {
	content, err := r.Component(page, data)
	if err != nil {
		return err
	}
	data.Content = content

	var buf bytes.Buffer
	if err = r.tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("r.tmpl.ExecuteTemplate(layout) -> %w", err)
	}

	_, err = buf.WriteTo(w)
	return err
}
