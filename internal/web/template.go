package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/solar-monitor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"watts": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.1f W", *v)
	},
	"unixTime": func(ts int64) string {
		if ts == 0 {
			return "-"
		}
		return time.Unix(ts, 0).UTC().Format("15:04:05")
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Solar Monitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.stale { color: orange; font-weight: bold; }
.fresh { color: green; }
.connected { color: green; }
.disconnected { color: #888; }
img.frame { border: 1px solid #ccc; image-rendering: pixelated; width: 100%; }
</style>
</head>
<body>
<h1>Solar Monitor</h1>

<p><img class="frame" src="/frame.png" alt="current display frame"></p>

<h2>Reading</h2>
<table>
<tr><th>Solar</th><td>{{watts .Reading.Solar}}</td></tr>
<tr><th>Usage</th><td>{{watts .Reading.Usage}}</td></tr>
<tr><th>Sample time</th><td>{{if .Reading.Timestamp.IsZero}}-{{else}}{{.Reading.Timestamp.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
<tr><th>Feed</th><td class="{{if .Stale}}stale{{else}}fresh{{end}}">{{if .Stale}}STALE{{else}}live{{end}}</td></tr>
</table>

<h2>Chart</h2>
<table>
<tr><th>Window origin</th><td>{{unixTime .OriginTS}}</td></tr>
<tr><th>Axis ceiling</th><td>{{printf "%.0f" .MaxPowerW}} W</td></tr>
<tr><th>Samples in window</th><td>{{.WindowLen}}</td></tr>
<tr><th>Full redraws</th><td>{{.Counts.FullRedraws}}</td></tr>
<tr><th>Incremental redraws</th><td>{{.Counts.IncrementalRedraws}}</td></tr>
<tr><th>Readout draws / skips</th><td>{{.Counts.ReadoutDraws}} / {{.Counts.ReadoutSkips}}</td></tr>
</table>

<h2>Source</h2>
<table>
<tr><th>InfluxDB</th><td>{{.Config.InfluxURL}}</td></tr>
<tr><th>Fetches</th><td>{{.Counts.Fetches}} ({{.Counts.EmptyFetches}} empty)</td></tr>
<tr><th>Samples stored</th><td>{{.Counts.Samples}}</td></tr>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollSeconds}}s</td></tr>
<tr><th>Window</th><td>{{.Config.WindowSeconds}}s (scroll {{.Config.ScrollQuantum}}s)</td></tr>
<tr><th>Display</th><td>{{.Config.Display}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
