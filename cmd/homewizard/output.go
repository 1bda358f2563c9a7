package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/amimof/huego"

	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/domain/translator"
)

type printer struct {
	w      io.Writer
	format string
	hue    *translator.Factory
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) table(header string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func optional[V int | float64](v *V) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func (p *printer) switches(switches []model.Switch) error {
	switch p.format {
	case "json":
		return p.json(switches)
	case "hue":
		lights := make(map[string]huego.Light, len(switches))
		for _, sw := range switches {
			lights[strconv.Itoa(sw.ID)] = p.hue.Light(sw)
		}
		return p.json(lights)
	}
	rows := make([][]string, 0, len(switches))
	for _, sw := range switches {
		detail := ""
		switch {
		case sw.Kind == model.SwitchKindDimmer:
			detail = fmt.Sprintf("%d%%", sw.DimLevel)
		case sw.Color != nil:
			detail = fmt.Sprintf("hue %d sat %d bri %d", sw.Color.Hue, sw.Color.Saturation, sw.Color.Brightness)
		}
		rows = append(rows, []string{strconv.Itoa(sw.ID), sw.Name, string(sw.Kind), onOff(sw.On), detail})
	}
	return p.table("ID\tNAME\tTYPE\tSTATUS\tDETAIL", rows)
}

func (p *printer) sensors(sensors []model.Sensor) error {
	if p.format == "json" {
		return p.json(sensors)
	}
	rows := make([][]string, 0, len(sensors))
	for _, s := range sensors {
		rows = append(rows, []string{strconv.Itoa(s.ID), s.Name, string(s.Type), onOff(s.On), s.LastEventTime})
	}
	return p.table("ID\tNAME\tTYPE\tSTATUS\tLAST EVENT", rows)
}

func (p *printer) thermometers(thermometers []model.Thermometer) error {
	if p.format == "json" {
		return p.json(thermometers)
	}
	rows := make([][]string, 0, len(thermometers))
	for _, t := range thermometers {
		rows = append(rows, []string{
			strconv.Itoa(t.ID), t.Name, strconv.Itoa(t.Channel),
			optional(t.Temperature), optional(t.Humidity),
		})
	}
	return p.table("ID\tNAME\tCHANNEL\tTEMP\tHUMIDITY", rows)
}

func (p *printer) scenes(scenes []model.Scene) error {
	if p.format == "json" {
		return p.json(scenes)
	}
	rows := make([][]string, 0, len(scenes))
	for _, s := range scenes {
		rows = append(rows, []string{strconv.Itoa(s.ID), s.Name, strconv.FormatBool(s.Favorite)})
	}
	return p.table("ID\tNAME\tFAVORITE", rows)
}

func (p *printer) timers(timers []model.Timer) error {
	if p.format == "json" {
		return p.json(timers)
	}
	rows := make([][]string, 0, len(timers))
	for _, t := range timers {
		days := "once"
		if t.Repeating() {
			parts := make([]string, 0, len(t.Days))
			for _, d := range t.Days {
				parts = append(parts, time.Weekday(d).String()[:3])
			}
			days = strings.Join(parts, ",")
		}
		rows = append(rows, []string{
			strconv.Itoa(t.ID), fmt.Sprintf("%s %d", t.Subject, t.SubjectID), string(t.Action),
			string(t.Trigger), t.TimeOrOffset, days, strconv.FormatBool(t.Active),
		})
	}
	return p.table("ID\tSUBJECT\tACTION\tTRIGGER\tTIME\tDAYS\tACTIVE", rows)
}

func (p *printer) cameras(cameras []model.Camera) error {
	if p.format == "json" {
		return p.json(cameras)
	}
	rows := make([][]string, 0, len(cameras))
	for _, c := range cameras {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, fmt.Sprintf("%s:%d", c.Host, c.Port)})
	}
	return p.table("ID\tNAME\tADDRESS", rows)
}

func (p *printer) sceneDetail(d *model.SceneDetail) error {
	if p.format == "json" {
		return p.json(d)
	}
	fmt.Fprintf(p.w, "Scene %d codes: %s\n\n", d.SceneID, strings.Join(d.Codes, ", "))
	rows := make([][]string, 0, len(d.Switches))
	for _, s := range d.Switches {
		rows = append(rows, []string{strconv.Itoa(s.ID), s.Name, string(s.OnAction), string(s.OffAction)})
	}
	if err := p.table("SWITCH\tNAME\tON\tOFF", rows); err != nil {
		return err
	}
	fmt.Fprintln(p.w)
	return p.timers(d.Timers)
}

func (p *printer) sensorLog(events []model.SensorEvent) error {
	if p.format == "json" {
		return p.json(events)
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.Time.Format(time.DateTime), onOff(e.On)})
	}
	return p.table("TIME\tSTATUS", rows)
}

func (p *printer) history(h *model.ThermometerHistory) error {
	if p.format == "json" {
		return p.json(h)
	}
	rows := make([][]string, 0, len(h.Temperature))
	for i, t := range h.Temperature {
		hum := "-"
		if i < len(h.Humidity) {
			hum = strconv.Itoa(h.Humidity[i].Value)
		}
		rows = append(rows, []string{t.Time.Format("2006-01-02 15:04"), fmt.Sprint(t.Value), optional(t.Max), hum})
	}
	return p.table("TIME\tTEMP\tTEMP MAX\tHUMIDITY", rows)
}

func (p *printer) value(key, v string) error {
	if p.format == "json" {
		return p.json(map[string]string{key: v})
	}
	_, err := fmt.Fprintln(p.w, v)
	return err
}

func (p *printer) snapshot(at time.Time, switches []model.Switch, sensors []model.Sensor, thermometers []model.Thermometer) error {
	if p.format == "json" {
		return p.json(map[string]any{
			"time":         at,
			"switches":     switches,
			"sensors":      sensors,
			"thermometers": thermometers,
		})
	}
	fmt.Fprintf(p.w, "--- %s\n", at.Format(time.TimeOnly))
	if err := p.switches(switches); err != nil {
		return err
	}
	if err := p.sensors(sensors); err != nil {
		return err
	}
	return p.thermometers(thermometers)
}
