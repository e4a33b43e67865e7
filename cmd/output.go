package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/tasks"
)

// render writes v as indented JSON when format is json, otherwise it calls
// text.
func render(w io.Writer, format string, v any, text func(w io.Writer) error) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}

func writePlaces(w io.Writer, places googlemaps.PlaceList) error {
	if len(places) == 0 {
		_, err := fmt.Fprintln(w, "No places found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tADDRESS\tRATING\tPLACE ID")
	for _, p := range places {
		rating := "-"
		if p.Rating != nil {
			rating = fmt.Sprintf("%.1f", *p.Rating)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.FormattedAddress, rating, p.PlaceID)
	}
	return tw.Flush()
}

func writePlaceDetail(w io.Writer, d *googlemaps.PlaceDetail) error {
	if d == nil {
		_, err := fmt.Fprintln(w, "No details available.")
		return err
	}

	fmt.Fprintf(w, "%s\n", d.Name)
	fmt.Fprintf(w, "  Address:  %s\n", d.FormattedAddress)
	if c, ok := d.Coordinates(); ok {
		fmt.Fprintf(w, "  Location: %s\n", c)
	}
	if d.Rating != nil {
		fmt.Fprintf(w, "  Rating:   %.1f\n", *d.Rating)
	}
	if d.FormattedPhoneNumber != "" {
		fmt.Fprintf(w, "  Phone:    %s\n", d.FormattedPhoneNumber)
	}
	if d.Website != "" {
		fmt.Fprintf(w, "  Website:  %s\n", d.Website)
	}
	if d.OpeningHours != nil && len(d.OpeningHours.WeekdayText) > 0 {
		fmt.Fprintln(w, "  Hours:")
		for _, line := range d.OpeningHours.WeekdayText {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	return nil
}

func writeDirections(w io.Writer, r *googlemaps.DirectionResult) error {
	if r == nil || len(r.Legs) == 0 {
		_, err := fmt.Fprintln(w, "No route found.")
		return err
	}

	if r.Summary != "" {
		fmt.Fprintf(w, "Route via %s\n", r.Summary)
	}
	for i, leg := range r.Legs {
		fmt.Fprintf(w, "%d. %s -> %s (%s, %s)\n", i+1, leg.StartAddress, leg.EndAddress, leg.Distance.Text, leg.Duration.Text)
	}
	return nil
}

func writeTasks(w io.Writer, list []tasks.Task) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tTITLE\tLOCATION\tDUE")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status(), t.Priority, t.Title, locationText(t.Location), dueText(t))
	}
	return tw.Flush()
}

func writeTask(w io.Writer, t tasks.Task) error {
	fmt.Fprintf(w, "%s  %s\n", t.ID, t.Title)
	fmt.Fprintf(w, "  Status:   %s\n", t.Status())
	fmt.Fprintf(w, "  Priority: %s\n", t.Priority)
	if strings.TrimSpace(t.Description) != "" {
		fmt.Fprintf(w, "  Notes:    %s\n", t.Description)
	}
	if t.Location != nil {
		fmt.Fprintf(w, "  Location: %s (%.6f,%.6f)\n", t.Location.Address, t.Location.Lat, t.Location.Lng)
	}
	if t.DueDate != nil {
		fmt.Fprintf(w, "  Due:      %s\n", dueText(t))
	}
	return nil
}

func locationText(l *tasks.Location) string {
	if l == nil {
		return "-"
	}
	return l.Address
}

func dueText(t tasks.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDate.Format("2006-01-02 15:04")
}
