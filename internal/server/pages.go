// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package server

import (
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/mtreilly/math-error/internal/library"
)

const pageHead = `{{define "head"}}<!DOCTYPE html>
<html class="theme-{{.Appearance.Mode}}" style="{{cssVars .Appearance}}">
<head>
	<title>{{.Title}}</title>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<style>
		* { box-sizing: border-box; }
		html, body { margin: 0; }
		body { font: 15px/1.5 system-ui, sans-serif; background: var(--bg); color: var(--fg); }
		main { width: min(1100px, 100% - 32px); margin-inline: auto; padding-block: 24px 48px; }
		html.theme-light { --bg: #ffffff; --fg: #1f2937; --card: #f8f9fa; --accent: #3498db; }
		html.theme-dark { --bg: #111827; --fg: #e5e7eb; --card: #1f2937; --accent: #60a5fa; }
		html.theme-high-contrast { --bg: #000000; --fg: #ffffff; --card: #000000; --accent: #ffff00; }
		html.theme-custom { --bg: #ffffff; --fg: rgb(var(--custom-primary-foreground)); --card: rgb(var(--custom-primary) / 0.15); --accent: rgb(var(--custom-primary)); }
		a { color: var(--accent); }
		h1 { margin: 0 0 16px; }
		ul { padding: 0; }
		li { list-style: none; margin: 8px 0; }
		section { margin: 24px 0; }
		.totals { display: grid; grid-template-columns: repeat(3, max-content); gap: 12px; margin-bottom: 20px; }
		.total { background: var(--card); border-left: 3px solid var(--accent); padding: 6px 16px; }
		.total b { display: block; font-size: 22px; }
		.total small { letter-spacing: 0.05em; opacity: 0.7; }
		.finder { width: 100%; padding: 10px 12px; font: inherit; color: inherit; background: var(--card); border: 1px solid var(--accent); border-radius: 6px; }
		.hits { margin: 8px 0 24px; }
		.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); gap: 15px; }
		.card { background: var(--card); border-radius: 8px; padding: 16px; }
		.meta { font-size: 13px; opacity: 0.8; }
	</style>
</head>
<body><main>{{end}}`

const indexPage = `{{template "head" .}}
	<h1>Math ERROR</h1>
	<div class="totals">
		<div class="total"><b>{{.Stats.TotalSubjects}}</b><small>subjects</small></div>
		<div class="total"><b>{{comma .Stats.TotalResources}}</b><small>resources</small></div>
		<div class="total"><b>{{comma .Stats.TotalDownloads}}</b><small>downloads</small></div>
	</div>
	<input type="search" id="finder" class="finder" placeholder="Search papers, notes and videos..." autocomplete="off">
	<ul id="hits" class="hits"></ul>
	<div class="grid">
	{{range .Subjects}}
		<div class="card">
			<div>{{.Icon}} <a href="/subjects/{{.ID}}">{{.Name}}</a></div>
			<div class="meta">{{.Code}} · {{.Description}}</div>
			<div class="meta">{{len .Resources.Papers}} papers · {{len .Resources.Pedia}} notes · {{len .Resources.Videos}} videos</div>
		</div>
	{{end}}
	</div>
	{{if .Stats.RecentDownloads}}
	<section>
		<h2>Recent downloads</h2>
		<ul>
		{{range .Stats.RecentDownloads}}<li>{{.ResourceName}} <span class="meta">{{ago .Timestamp}}</span></li>{{end}}
		</ul>
	</section>
	{{end}}
	<script>
	(function () {
		var box = document.getElementById('finder');
		var hits = document.getElementById('hits');
		var timer = null;

		function show(results, query) {
			hits.textContent = '';
			if (!query) return;
			if (results.length === 0) {
				var none = document.createElement('li');
				none.className = 'meta';
				none.textContent = 'No resources match "' + query + '"';
				hits.appendChild(none);
				return;
			}
			results.forEach(function (r) {
				var li = document.createElement('li');
				var link = document.createElement('a');
				link.href = '/api/open/' + encodeURIComponent(r.subjectId) + '/' + r.resourceType + '/' + encodeURIComponent(r.id);
				link.target = '_blank';
				link.rel = 'noopener';
				link.textContent = r.title;
				var where = document.createElement('span');
				where.className = 'meta';
				where.textContent = ' ' + r.subjectName + ' · ' + r.resourceType;
				li.appendChild(link);
				li.appendChild(where);
				hits.appendChild(li);
			});
		}

		box.addEventListener('input', function () {
			clearTimeout(timer);
			var query = box.value.trim();
			if (!query) { show([], ''); return; }
			timer = setTimeout(function () {
				fetch('/api/search?q=' + encodeURIComponent(query))
					.then(function (res) { return res.json(); })
					.then(function (results) { show(results, query); });
			}, 300);
		});
	})();
	</script>
</main>
</body>
</html>`

const subjectPage = `{{template "head" .}}
	<div><a href="/">← All subjects</a></div>
	<h1>{{.Subject.Icon}} {{.Subject.Name}}</h1>
	<div class="meta">{{.Subject.Code}} · {{.Subject.Description}}</div>
	{{$s := .Subject}}
	{{range .Sections}}
	<section>
		<h2>{{.Type.Label}}</h2>
		{{if not .Resources}}<div class="meta">Nothing here yet.</div>{{end}}
		<ul>
		{{range .Resources}}
			<li>
				<a href="/api/open/{{$s.ID}}/{{.Type}}/{{.ID}}" target="_blank" rel="noopener">{{.Title}}</a>
				{{if .Size}}<span class="meta">{{.Size}}</span>{{end}}
				<span class="meta">added {{ago .DateAdded}}</span>
				{{if .Description}}<div class="meta">{{.Description}}</div>{{end}}
			</li>
		{{end}}
		</ul>
	</section>
	{{end}}
</main>
</body>
</html>`

var pageFuncs = template.FuncMap{
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "some time ago"
		}
		return humanize.Time(t)
	},
	"cssVars": cssVars,
}

var (
	indexTmpl   = mustPage("index", indexPage)
	subjectTmpl = mustPage("subject", subjectPage)
)

func mustPage(name, body string) *template.Template {
	base := template.Must(template.New("layout").Funcs(pageFuncs).Parse(pageHead))
	return template.Must(base.New(name).Parse(body))
}

// cssVars renders the appearance variables as an inline style declaration.
func cssVars(a library.Appearance) template.CSS {
	keys := make([]string, 0, len(a.Vars))
	for k := range a.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(a.Vars[k])
		b.WriteString("; ")
	}
	return template.CSS(b.String())
}

type pageResource struct {
	library.Resource
	Type library.ResourceType
}

type pageSection struct {
	Type      library.ResourceType
	Resources []pageResource
}

func (s *Server) indexPage(c *gin.Context) {
	data := struct {
		Title      string
		Appearance library.Appearance
		Subjects   []library.Subject
		Stats      library.Stats
	}{
		Title:      "Math ERROR",
		Appearance: s.prefs.Appearance(),
		Subjects:   s.catalog.Subjects(),
		Stats:      s.catalog.Stats(),
	}
	s.render(c, indexTmpl, data)
}

func (s *Server) subjectPage(c *gin.Context) {
	subject, ok := s.catalog.SubjectByID(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "subject not found")
		return
	}

	sections := make([]pageSection, 0, len(library.ResourceTypes))
	for _, rt := range library.ResourceTypes {
		sec := pageSection{Type: rt}
		for _, r := range subject.Resources.List(rt) {
			sec.Resources = append(sec.Resources, pageResource{Resource: r, Type: rt})
		}
		sections = append(sections, sec)
	}

	data := struct {
		Title      string
		Appearance library.Appearance
		Subject    library.Subject
		Sections   []pageSection
	}{
		Title:      subject.Name + " - Math ERROR",
		Appearance: s.prefs.Appearance(),
		Subject:    subject,
		Sections:   sections,
	}
	s.render(c, subjectTmpl, data)
}

func (s *Server) render(c *gin.Context, t *template.Template, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := t.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}
