package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/scoring"
)

var templateFuncs = template.FuncMap{
	"comma": humanize.Comma,
}

type pageData struct {
	Wallet string
	Error  string
	Result *resultView
}

type resultView struct {
	Points     int64
	NFTCount   int
	Badges     []badgeView
	Breakdowns []breakdownView
}

type badgeView struct {
	Title   string
	Style   template.CSS
	Tooltip string
}

type breakdownView struct {
	Category string
	Detail   string
	Points   int64
}

func newResultView(rec *domain.ScoreRecord) *resultView {
	v := &resultView{
		Points:   rec.Points,
		NFTCount: rec.NFTCount,
	}

	for _, title := range rec.Titles {
		style := scoring.StyleFor(title)
		v.Badges = append(v.Badges, badgeView{
			Title: title,
			// Styles come from the static badge table.
			Style: template.CSS(fmt.Sprintf("background: %s; border: 1px solid %s; color: %s",
				style.Background, style.Border, style.Text)),
			Tooltip: style.Tooltip,
		})
	}

	for _, b := range rec.Result().SortedBreakdowns() {
		v.Breakdowns = append(v.Breakdowns, breakdownView{
			Category: b.Category,
			Detail:   breakdownDetail(b),
			Points:   b.Points,
		})
	}
	return v
}

// breakdownDetail extracts the short label of a breakdown: the multiplier
// ("1.05x") for the NFT bonus, the tier label for tokens.
func breakdownDetail(b domain.ScoreBreakdown) string {
	if b.Category == scoring.CategoryNFTBonus {
		word, _, _ := strings.Cut(b.Explanation, " ")
		return word
	}
	if open := strings.LastIndex(b.Explanation, "("); open >= 0 && strings.HasSuffix(b.Explanation, ")") {
		return b.Explanation[open+1 : len(b.Explanation)-1]
	}
	return ""
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		s.log.Error().Err(err).Msg("template render failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Error().Err(err).Msg("write page failed")
	}
}
