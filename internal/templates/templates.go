// Package templates renders the admin pages and htmx fragments. Pages are
// html/template sets exposed as templ components so handlers render every
// response the same way.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

type page struct {
	Title    string
	SignedIn bool
	Body     any
}

var funcs = template.FuncMap{
	"itoa":    itoa,
	"percent": percent,
	"date":    date,
	"orDash":  orDash,
}

var baseTmpl = template.Must(template.New("layout").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} · Beneficiary Admin</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;500;600&family=IBM+Plex+Sans:wght@300;400;500;600&display=swap" rel="stylesheet">
<style>
  :root{--ink:#0d1117;--paper:#f5f0e8;--ledger:#e8e0cc;--accent:#c0392b;--accent2:#2c6e49;--muted:#6b5e4e;--rule:#b8a898;}
  *{box-sizing:border-box;}
  body{background:var(--paper);color:var(--ink);font-family:'IBM Plex Sans',sans-serif;min-height:100vh;margin:0;}
  .mono{font-family:'IBM Plex Mono',monospace;}
  .card{background:rgba(255,255,255,0.7);border:1px solid var(--ledger);border-left:4px solid var(--ink);}
  .field-label{font-family:'IBM Plex Mono',monospace;font-size:0.6rem;font-weight:600;letter-spacing:0.1em;text-transform:uppercase;color:var(--muted);display:block;margin-bottom:2px;}
  .field-error{font-size:0.72rem;color:var(--accent);margin-top:2px;}
  input,select{background:white;border:1px solid var(--rule);border-bottom:2px solid var(--ink);padding:6px 8px;font-family:'IBM Plex Mono',monospace;font-size:0.85rem;width:100%;outline:none;transition:border-color 0.15s;}
  input:focus,select:focus{border-bottom-color:var(--accent);}
  .btn{font-family:'IBM Plex Mono',monospace;font-weight:600;font-size:0.8rem;letter-spacing:0.08em;padding:8px 18px;border:2px solid var(--ink);cursor:pointer;transition:all 0.15s;text-transform:uppercase;}
  .btn-sm{padding:4px 12px;font-size:0.7rem;}
  .btn-primary{background:var(--ink);color:white;}
  .btn-primary:hover{background:var(--accent);border-color:var(--accent);}
  .btn-plain{background:white;color:var(--ink);}
  .btn-danger{background:white;color:var(--accent);border-color:var(--accent);}
  .btn-danger:hover{background:var(--accent);color:white;}
  .section-header{font-family:'IBM Plex Mono',monospace;font-size:0.7rem;font-weight:600;letter-spacing:0.18em;text-transform:uppercase;color:var(--muted);border-bottom:1px solid var(--rule);padding-bottom:4px;margin-bottom:16px;}
  table{width:100%;border-collapse:collapse;font-size:0.85rem;}
  th{font-family:'IBM Plex Mono',monospace;font-size:0.65rem;letter-spacing:0.1em;text-transform:uppercase;text-align:left;color:var(--muted);border-bottom:2px solid var(--ink);padding:6px 8px;}
  td{border-bottom:1px solid var(--ledger);padding:8px;}
  .notice{padding:10px 14px;margin-bottom:10px;border-left:4px solid;}
  .notice-success{background:#e3f1e8;border-color:var(--accent2);}
  .notice-error{background:#f8e1de;border-color:var(--accent);}
  .notice-title{font-family:'IBM Plex Mono',monospace;font-weight:600;font-size:0.8rem;}
  .htmx-indicator{opacity:0;transition:opacity 0.2s;}
  .htmx-request .htmx-indicator{opacity:1;}
</style>
</head>
<body>
<div style="max-width:1100px;margin:0 auto;padding:32px 24px;">
<div style="display:flex;align-items:flex-start;justify-content:space-between;margin-bottom:32px;">
  <div>
    <div style="font-family:'IBM Plex Mono',monospace;font-size:0.65rem;letter-spacing:0.2em;color:var(--muted);margin-bottom:4px;">HUMAN RESOURCES · ADMINISTRATION</div>
    <h1 style="font-family:'IBM Plex Mono',monospace;font-size:1.6rem;font-weight:600;letter-spacing:-0.02em;margin:0;"><a href="/" style="color:inherit;text-decoration:none;">Beneficiary Admin</a></h1>
  </div>
  {{if .SignedIn}}
  <form method="post" action="/logout"><button type="submit" class="btn btn-plain btn-sm">SIGN OUT</button></form>
  {{end}}
</div>
{{template "content" .Body}}
</div>
</body>
</html>
{{define "notices"}}
{{range .}}
<div class="notice notice-{{.Level}}" role="status">
  <div class="notice-title">{{.Title}}</div>
  {{if .Message}}<div style="font-size:0.8rem;margin-top:2px;">{{.Message}}</div>{{end}}
</div>
{{end}}
{{end}}
{{define "entity-form"}}
<div class="card" style="padding:22px;margin-bottom:20px;">
  <div class="section-header">{{.Title}}</div>
  {{if eq .Method "put"}}<form hx-put="{{.Action}}" hx-target="{{.Target}}" hx-swap="outerHTML">{{else}}<form hx-post="{{.Action}}" hx-target="{{.Target}}" hx-swap="outerHTML">{{end}}
    <div style="display:grid;grid-template-columns:1fr 1fr;gap:12px;">
      <div>
        <label class="field-label" for="nationalityId">Nationality *</label>
        <select id="nationalityId" name="nationalityId">
          <option value="">Select…</option>
          {{$sel := .NationalityID}}
          {{range .Nationalities}}<option value="{{.ID}}"{{if eq .ID $sel}} selected{{end}}>{{.Description}}</option>{{end}}
        </select>
        {{if .NationalityError}}<div class="field-error">{{.NationalityError}}</div>{{end}}
      </div>
      {{range .Fields}}
      <div>
        <label class="field-label" for="{{.Name}}">{{.Label}}{{if .Required}} *{{end}}</label>
        <input id="{{.Name}}" name="{{.Name}}" type="{{.Type}}" value="{{.Value}}"{{if .Max}} maxlength="{{.Max}}"{{end}}>
        {{if .Error}}<div class="field-error">{{.Error}}</div>{{end}}
      </div>
      {{end}}
    </div>
    <div style="margin-top:16px;display:flex;gap:10px;justify-content:flex-end;">
      <button type="button" class="btn btn-plain" hx-post="{{.CancelURL}}" hx-target="{{.Target}}" hx-swap="outerHTML">CANCEL</button>
      <button type="submit" class="btn btn-primary">SAVE <span class="htmx-indicator">…</span></button>
    </div>
  </form>
</div>
{{end}}
{{define "employees-panel"}}
<div id="employees-panel">
  {{template "notices" .Notices}}
  {{if .Form}}{{template "entity-form" .Form}}{{end}}
  <div style="display:flex;justify-content:space-between;align-items:center;margin-bottom:12px;">
    <div class="section-header" style="margin:0;border:none;">Employees ({{len .Rows}})</div>
    <button class="btn btn-primary btn-sm" hx-get="/employees/new" hx-target="#employees-panel" hx-swap="outerHTML">NEW EMPLOYEE +</button>
  </div>
  {{if .Loading}}<div class="mono" style="font-size:0.75rem;color:var(--muted);">Loading…</div>{{end}}
  <table>
    <thead><tr><th>Name</th><th>Number</th><th>Nationality</th><th>Birth date</th><th>Phone</th><th></th></tr></thead>
    <tbody>
    {{range .Rows}}
      <tr>
        <td><a href="/employee/{{itoa .ID}}">{{.FirstName}} {{.LastName}}</a></td>
        <td class="mono">{{.EmployeeNumber}}</td>
        <td>{{orDash .Nationality}}</td>
        <td>{{date .BirthDate}}</td>
        <td class="mono">{{.Phone}}</td>
        <td style="text-align:right;white-space:nowrap;">
          <button class="btn btn-plain btn-sm" hx-get="/employees/{{itoa .ID}}/edit" hx-target="#employees-panel" hx-swap="outerHTML">EDIT</button>
          <button class="btn btn-danger btn-sm" hx-delete="/employees/{{itoa .ID}}" hx-target="#employees-panel" hx-swap="outerHTML" hx-confirm="{{.Confirm}}">DELETE</button>
        </td>
      </tr>
    {{else}}
      <tr><td colspan="6" class="mono" style="text-align:center;color:var(--muted);">No employees yet.</td></tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}
{{define "beneficiaries-panel"}}
<div id="beneficiaries-panel">
  {{template "notices" .Notices}}
  {{if .Form}}{{template "entity-form" .Form}}{{end}}
  {{$emp := itoa .EmployeeID}}
  <div style="display:flex;justify-content:space-between;align-items:center;margin-bottom:12px;">
    <div class="section-header" style="margin:0;border:none;">Beneficiaries ({{len .Rows}})</div>
    <button class="btn btn-primary btn-sm" hx-get="/employee/{{$emp}}/beneficiaries/new" hx-target="#beneficiaries-panel" hx-swap="outerHTML">NEW BENEFICIARY +</button>
  </div>
  {{if .Loading}}<div class="mono" style="font-size:0.75rem;color:var(--muted);">Loading…</div>{{end}}
  <table>
    <thead><tr><th>Name</th><th>Nationality</th><th>Birth date</th><th>Phone</th><th style="text-align:right;">Participation</th><th></th></tr></thead>
    <tbody>
    {{range .Rows}}
      <tr>
        <td>{{.FirstName}} {{.LastName}}</td>
        <td>{{orDash .Nationality}}</td>
        <td>{{date .BirthDate}}</td>
        <td class="mono">{{.Phone}}</td>
        <td class="mono" style="text-align:right;">{{percent .ParticipationPercent}}</td>
        <td style="text-align:right;white-space:nowrap;">
          <button class="btn btn-plain btn-sm" hx-get="/employee/{{$emp}}/beneficiaries/{{itoa .ID}}/edit" hx-target="#beneficiaries-panel" hx-swap="outerHTML">EDIT</button>
          <button class="btn btn-danger btn-sm" hx-delete="/employee/{{$emp}}/beneficiaries/{{itoa .ID}}" hx-target="#beneficiaries-panel" hx-swap="outerHTML" hx-confirm="{{.Confirm}}">DELETE</button>
        </td>
      </tr>
    {{else}}
      <tr><td colspan="6" class="mono" style="text-align:center;color:var(--muted);">No beneficiaries yet.</td></tr>
    {{end}}
    </tbody>
    {{if .Rows}}<tfoot><tr><td colspan="4" style="text-align:right;font-weight:600;">Total</td><td class="mono" style="text-align:right;font-weight:600;">{{.Total}}%</td><td></td></tr></tfoot>{{end}}
  </table>
</div>
{{end}}`))

var loginTmpl = template.Must(template.Must(baseTmpl.Clone()).Parse(`
{{define "content"}}
<div class="card" style="padding:24px;max-width:380px;margin:40px auto;">
  <div class="section-header">Sign in</div>
  {{if .Error}}<div class="notice notice-error"><div class="notice-title">Login failed</div><div style="font-size:0.8rem;">{{.Error}}</div></div>{{end}}
  <form method="post" action="/login">
    <div style="display:grid;gap:12px;">
      <div>
        <label class="field-label" for="username">Username *</label>
        <input id="username" name="username" type="text" value="{{.Username}}" autocomplete="username">
        {{with index .Errors "username"}}<div class="field-error">{{.}}</div>{{end}}
      </div>
      <div>
        <label class="field-label" for="password">Password *</label>
        <input id="password" name="password" type="password" autocomplete="current-password">
        {{with index .Errors "password"}}<div class="field-error">{{.}}</div>{{end}}
      </div>
    </div>
    <div style="margin-top:16px;display:flex;justify-content:flex-end;">
      <button type="submit" class="btn btn-primary">SIGN IN →</button>
    </div>
  </form>
</div>
{{end}}`))

var employeesTmpl = template.Must(template.Must(baseTmpl.Clone()).Parse(`
{{define "content"}}{{template "employees-panel" .}}{{end}}`))

var detailTmpl = template.Must(template.Must(baseTmpl.Clone()).Parse(`
{{define "content"}}
<div style="display:flex;align-items:center;justify-content:space-between;margin-bottom:20px;">
  <a href="/" class="mono" style="font-size:0.75rem;color:var(--muted);text-decoration:none;">← ALL EMPLOYEES</a>
  {{if .Resolved}}<a href="/employee/{{itoa .Employee.ID}}/pdf" class="btn btn-plain btn-sm" style="text-decoration:none;">⬇ PDF</a>{{end}}
</div>
{{template "notices" .Notices}}
<div class="card" style="padding:22px;margin-bottom:28px;">
  <div class="section-header">Employee</div>
  <div style="display:grid;grid-template-columns:repeat(3,1fr);gap:14px;font-size:0.9rem;">
    <div><span class="field-label">First name</span>{{orDash .Employee.FirstName}}</div>
    <div><span class="field-label">Last name</span>{{orDash .Employee.LastName}}</div>
    <div><span class="field-label">Number</span><span class="mono">{{if .Employee.EmployeeNumber}}{{.Employee.EmployeeNumber}}{{else}}-{{end}}</span></div>
    <div><span class="field-label">Nationality</span>{{orDash .Employee.Nationality}}</div>
    <div><span class="field-label">Birth date</span>{{date .Employee.BirthDate}}</div>
    <div><span class="field-label">Phone</span><span class="mono">{{orDash (printf "%s" .Employee.Phone)}}</span></div>
    <div><span class="field-label">CURP</span><span class="mono">{{orDash .Employee.CURP}}</span></div>
    <div><span class="field-label">SSN</span><span class="mono">{{orDash .Employee.SSN}}</span></div>
  </div>
</div>
{{if .Beneficiaries}}{{template "beneficiaries-panel" .Beneficiaries}}{{end}}
{{end}}`))

// component adapts one template of set to templ.Component.
func component(set *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return set.ExecuteTemplate(w, name, data)
	})
}

func LoginPage(d LoginData) templ.Component {
	return component(loginTmpl, "layout", page{Title: "Sign in", Body: d})
}

func EmployeesPage(p EmployeesPanel) templ.Component {
	return component(employeesTmpl, "layout", page{Title: "Employees", SignedIn: true, Body: p})
}

// EmployeesFragment is the swappable roster panel.
func EmployeesFragment(p EmployeesPanel) templ.Component {
	return component(baseTmpl, "employees-panel", p)
}

func DetailPage(d DetailData) templ.Component {
	title := "Employee"
	if d.Resolved {
		title = d.Employee.FullName()
	}
	return component(detailTmpl, "layout", page{Title: title, SignedIn: true, Body: d})
}

// BeneficiariesFragment is the swappable beneficiary panel of a detail page.
func BeneficiariesFragment(p BeneficiariesPanel) templ.Component {
	return component(baseTmpl, "beneficiaries-panel", p)
}
