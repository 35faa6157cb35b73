package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/holdings"
)

func writeJSON(w io.Writer, rec *domain.ScoreRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func writeText(w io.Writer, rec *domain.ScoreRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Wallet:\t%s\n", rec.Wallet)
	if rec.Points == 0 {
		fmt.Fprintf(tw, "Score:\tZERO POINTS (NGMI)\n")
	} else {
		fmt.Fprintf(tw, "Score:\t%s points\n", humanize.Comma(rec.Points))
	}
	fmt.Fprintf(tw, "Titles:\t%s\n", strings.Join(rec.Titles, ", "))
	fmt.Fprintf(tw, "Cousins:\t%d\n", rec.NFTCount)
	fmt.Fprintf(tw, "Scored at:\t%s\n", time.UnixMilli(rec.ComputedAt).UTC().Format(time.RFC3339))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CATEGORY\tPOINTS\tDETAIL")
	for _, b := range rec.Result().SortedBreakdowns() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Category, humanize.Comma(b.Points), b.Explanation)
	}
	return tw.Flush()
}

func writeHistory(w io.Writer, records []*domain.ScoreRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "SCORED AT\tPOINTS\tTITLES")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			time.UnixMilli(r.ComputedAt).UTC().Format(time.RFC3339),
			humanize.Comma(r.Points),
			strings.Join(r.Titles, ", "))
	}
	return tw.Flush()
}

func writeVerification(w io.Writer, v *holdings.Verification) error {
	status := "OK"
	if !v.OK() {
		status = "MISMATCH"
	}

	name := "-"
	if v.Metadata.Name != nil {
		name = *v.Metadata.Name
	}

	_, err := fmt.Fprintf(w, "%-9s %-8s %-44s decimals=%d name=%q",
		v.Token.Symbol, status, v.Token.Mint, v.Metadata.Decimals, name)
	if err != nil {
		return err
	}
	if len(v.Issues) > 0 {
		_, err = fmt.Fprintf(w, " issues=[%s]", strings.Join(v.Issues, "; "))
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}
