package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/hitoshi/userdir/internal/middleware"
	"github.com/hitoshi/userdir/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ビュー名
const (
	viewIndex   = "index.html"
	viewDetails = "details.html"
	viewForm    = "form.html"
	viewDelete  = "delete.html"
	viewError   = "error.html"
)

// views はビュー名ごとにlayoutと組み合わせた解析済みテンプレートを保持する。
var views = parseViews(viewIndex, viewDetails, viewForm, viewDelete, viewError)

func parseViews(names ...string) map[string]*template.Template {
	m := make(map[string]*template.Template, len(names))
	for _, name := range names {
		m[name] = template.Must(template.New(name).ParseFS(templatesFS, "templates/layout.html", "templates/"+name))
	}
	return m
}

// pageData はHTMLビューに渡すデータ。
// JSONクライアントにはModelのみを返す。
type pageData struct {
	Title   string
	Query   string
	Users   []model.User
	User    *model.User
	Action  string
	Editing bool
	Error   *model.APIError

	// Model はJSONレスポンスとして返す値。
	Model any
}

// wantsJSON はクライアントがJSONレスポンスを要求しているかを判定する。
func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

// render はビューを描画する。Accept: application/json の場合はModelをJSONで返す。
// テンプレートの実行結果はバッファに書き出してから送信する。
func render(w http.ResponseWriter, r *http.Request, status int, view string, data pageData) {
	if wantsJSON(r) {
		writeJSON(w, status, data.Model)
		return
	}

	tmpl, ok := views[view]
	if !ok {
		slog.Error("unknown view", slog.String("view", view))
		middleware.WriteInternalServerError(w)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render view",
			slog.String("view", view),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
