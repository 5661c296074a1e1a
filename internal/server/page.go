package server

import (
	"html/template"
	"strings"
)

type pageData struct {
	Title  string
	Width  float64
	Height float64
	SVG    template.HTML
}

// inlineSVG strips the XML prolog so the document can be embedded in HTML.
func inlineSVG(doc string) string {
	if i := strings.Index(doc, "<svg"); i > 0 {
		return doc[i:]
	}
	return doc
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; margin: 2rem; }
  #chart { width: 100%; max-width: {{.Width}}px; height: {{.Height}}px; }
  #chart svg { display: block; }
  .tick-label, .legend-line { font-size: 12px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="chart">{{.SVG}}</div>
<script>
(function () {
  const root = document.getElementById('chart');
  const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
  const ws = new WebSocket(scheme + location.host + '/ws');
  const send = (m) => { if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(m)); };

  function bind() {
    const overlay = root.querySelector('rect.overlay');
    if (!overlay) return;
    const pos = (e) => {
      const r = overlay.getBoundingClientRect();
      return { x: e.clientX - r.left, y: e.clientY - r.top };
    };
    overlay.addEventListener('mouseover', () => send({ type: 'pointerenter' }));
    overlay.addEventListener('mouseout', () => send({ type: 'pointerleave' }));
    overlay.addEventListener('mousemove', (e) => send(Object.assign({ type: 'pointermove' }, pos(e))));
  }

  function focus(m) {
    const g = root.querySelector('g.focus');
    const legend = root.querySelector('g.legend');
    if (!g || !legend) return;
    if (!m.visible) {
      g.setAttribute('display', 'none');
      return;
    }
    g.removeAttribute('display');
    g.setAttribute('transform', 'translate(' + m.x + ',' + m.y + ')');
    g.querySelector('line.x-hover-line').setAttribute('y2', m.y2);
    g.querySelector('line.y-hover-line').setAttribute('x2', m.x2);
    legend.replaceChildren();
    (m.legend || []).forEach((line, k) => {
      const t = document.createElementNS('http://www.w3.org/2000/svg', 'text');
      t.setAttribute('class', 'legend-line');
      t.setAttribute('y', k * 20);
      t.textContent = line;
      legend.appendChild(t);
    });
  }

  ws.onopen = () => {
    new ResizeObserver((entries) => {
      const r = entries[0].contentRect;
      send({ type: 'resize', width: r.width, height: r.height });
    }).observe(root);
  };
  ws.onmessage = (ev) => {
    const m = JSON.parse(ev.data);
    if (m.type === 'scene') {
      root.innerHTML = m.svg.replace(/^<\?xml[^>]*>\s*/, '');
      bind();
    } else if (m.type === 'focus') {
      focus(m);
    }
  };
  bind();
})();
</script>
</body>
</html>
`))
