package render

import (
	"encoding/json"
	"html/template"
)

// jsonJS marshals v for direct embedding in a script block. Marshal's
// default HTML escaping keeps "</script>" out of the output.
func jsonJS(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="https://d3js.org/d3.v7.min.js"></script>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f5f6fa; color: #2d3436; padding: 20px; }
h1 { margin-bottom: 20px; font-size: 1.6em; }
.charts-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(480px, 1fr)); gap: 20px; }
.panel { background: #fff; border-radius: 8px; padding: 16px; box-shadow: 0 1px 3px rgba(0,0,0,0.12); }
.panel h2 { font-size: 1.1em; margin-bottom: 4px; }
.panel .desc { color: #636e72; font-size: 0.85em; margin-bottom: 10px; }
.panel .advisory { color: #d63031; font-size: 0.8em; margin-top: 8px; }
.panel details { margin-top: 10px; font-size: 0.8em; }
.panel pre { background: #f1f2f6; padding: 8px; border-radius: 4px; overflow-x: auto; margin-top: 4px; }
.chart { width: 100%; min-height: 280px; }
table.data { border-collapse: collapse; width: 100%; font-size: 0.85em; }
table.data th, table.data td { border: 1px solid #dfe6e9; padding: 5px 8px; text-align: left; }
table.data th { background: #f1f2f6; }
.empty { color: #b2bec3; font-style: italic; padding: 40px 0; text-align: center; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="charts-grid">
{{range .Panels}}
  <div class="panel">
    <h2>{{.Title}}</h2>
    {{if .Description}}<div class="desc">{{.Description}}</div>{{end}}
    <div class="chart" id="{{.ID}}"></div>
    {{range .Advisories}}<div class="advisory">{{.}}</div>{{end}}
    {{if .SQL}}<details><summary>SQL{{if .Rationale}} &middot; {{.Rationale}}{{end}}</summary><pre>{{.SQL}}</pre></details>{{end}}
  </div>
{{end}}
</div>
<script>
const panels = [
{{range .Panels}}  {{.Payload}},
{{end}}];

const margin = {top: 20, right: 20, bottom: 60, left: 60};

function colIndex(p, name) {
  const i = p.columns.indexOf(name);
  return i >= 0 ? i : 0;
}

function renderPanel(p) {
  const container = d3.select("#" + p.id);
  if (!p.rows || p.rows.length === 0) {
    container.append("div").attr("class", "empty").text("no data");
    return;
  }
  switch (p.kind) {
    case "bar": renderBar(container, p); break;
    case "line": renderLine(container, p); break;
    case "pie": renderPie(container, p); break;
    default: renderTable(container, p);
  }
}

function frame(container) {
  const width = container.node().clientWidth || 480;
  const height = 300;
  const svg = container.append("svg").attr("width", width).attr("height", height);
  const g = svg.append("g").attr("transform", "translate(" + margin.left + "," + margin.top + ")");
  return {g: g, w: width - margin.left - margin.right, h: height - margin.top - margin.bottom};
}

function renderBar(container, p) {
  const xi = colIndex(p, p.x), yi = colIndex(p, p.y);
  const f = frame(container);
  const x = d3.scaleBand().domain(p.rows.map(r => String(r[xi]))).range([0, f.w]).padding(0.2);
  const y = d3.scaleLinear().domain([0, d3.max(p.rows, r => +r[yi]) || 1]).nice().range([f.h, 0]);
  f.g.append("g").attr("transform", "translate(0," + f.h + ")").call(d3.axisBottom(x))
    .selectAll("text").attr("transform", "rotate(-35)").style("text-anchor", "end");
  f.g.append("g").call(d3.axisLeft(y));
  f.g.selectAll("rect").data(p.rows).join("rect")
    .attr("x", r => x(String(r[xi]))).attr("y", r => y(+r[yi]))
    .attr("width", x.bandwidth()).attr("height", r => f.h - y(+r[yi]))
    .attr("fill", "#0984e3");
}

function renderLine(container, p) {
  const xi = colIndex(p, p.x), yi = colIndex(p, p.y);
  const f = frame(container);
  const pts = p.rows.map(r => ({x: new Date(r[xi]), y: +r[yi]})).filter(d => !isNaN(d.x));
  if (pts.length === 0) { renderTable(container, p); return; }
  const x = d3.scaleTime().domain(d3.extent(pts, d => d.x)).range([0, f.w]);
  const y = d3.scaleLinear().domain([0, d3.max(pts, d => d.y) || 1]).nice().range([f.h, 0]);
  f.g.append("g").attr("transform", "translate(0," + f.h + ")").call(d3.axisBottom(x));
  f.g.append("g").call(d3.axisLeft(y));
  f.g.append("path").datum(pts)
    .attr("fill", "none").attr("stroke", "#0984e3").attr("stroke-width", 2)
    .attr("d", d3.line().x(d => x(d.x)).y(d => y(d.y)));
}

function renderPie(container, p) {
  const xi = colIndex(p, p.x), yi = colIndex(p, p.y);
  const f = frame(container);
  const radius = Math.min(f.w, f.h) / 2;
  const g = f.g.append("g").attr("transform", "translate(" + f.w / 2 + "," + f.h / 2 + ")");
  const color = d3.scaleOrdinal(d3.schemeTableau10);
  const arcs = d3.pie().value(r => +r[yi])(p.rows);
  g.selectAll("path").data(arcs).join("path")
    .attr("d", d3.arc().innerRadius(0).outerRadius(radius))
    .attr("fill", (d, i) => color(i)).attr("stroke", "#fff");
  g.selectAll("text").data(arcs).join("text")
    .attr("transform", d => "translate(" + d3.arc().innerRadius(radius * 0.6).outerRadius(radius * 0.6).centroid(d) + ")")
    .attr("text-anchor", "middle").style("font-size", "0.7em")
    .text(d => String(d.data[xi]));
}

function renderTable(container, p) {
  const table = container.append("table").attr("class", "data");
  table.append("thead").append("tr").selectAll("th").data(p.columns).join("th").text(c => c);
  table.append("tbody").selectAll("tr").data(p.rows.slice(0, 200)).join("tr")
    .selectAll("td").data(r => r).join("td").text(v => v === null ? "" : String(v));
}

panels.forEach(renderPanel);
</script>
</body>
</html>
`))
