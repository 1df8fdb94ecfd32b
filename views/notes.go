// Package views renders the HTML note list
package views

import (
	"context"
	"fmt"
	"io"

	"priority-notes/models"

	"github.com/a-h/templ"
)

// PriorityClass buckets a priority into the css class used for its badge
func PriorityClass(priority int) string {
	switch {
	case priority <= 3:
		return "high"
	case priority <= 6:
		return "medium"
	default:
		return "low"
	}
}

// NotesPage renders the whole list screen. The embedded script keeps the list
// current through the note stream and drives the add, edit and delete calls.
func NotesPage(notes []models.Note, env string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		if err := EditorForm().Render(ctx, w); err != nil {
			return err
		}
		if err := NoteList(notes).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, pageTail, templ.EscapeString(env))
		return err
	})
}

// EditorForm renders the add/edit form. The script switches it to edit mode
// when a note is picked from the list.
func EditorForm() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, editorForm, models.MinPriority, models.MaxPriority, models.MinPriority)
		return err
	})
}

// NoteList renders the ordered list, or the empty state
func NoteList(notes []models.Note) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<ul id="notes">`); err != nil {
			return err
		}
		if len(notes) == 0 {
			if _, err := io.WriteString(w, `<li class="empty">No notes yet</li>`); err != nil {
				return err
			}
		}
		for _, note := range notes {
			if err := NoteRow(note).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}

// NoteRow renders one list entry: title, description and priority badge
func NoteRow(note models.Note) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<li data-id="%d"><span class="badge %s">%d</span><div class="body"><h3>%s</h3><p>%s</p></div>`+
				`<button class="edit" data-id="%d">Edit</button><button class="delete" data-id="%d">Delete</button></li>`,
			note.ID,
			PriorityClass(note.Priority),
			note.Priority,
			templ.EscapeString(note.Title),
			templ.EscapeString(note.Description),
			note.ID,
			note.ID,
		)
		return err
	})
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Priority Notes</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 2rem auto; padding: 0 1rem; }
ul { list-style: none; padding: 0; }
li { display: flex; gap: .75rem; align-items: center; border-bottom: 1px solid #ddd; padding: .5rem 0; }
li .body { flex: 1; }
li h3 { margin: 0; font-size: 1rem; }
li p { margin: .25rem 0 0; color: #555; }
.badge { border-radius: 50%; width: 2rem; height: 2rem; display: inline-flex; align-items: center; justify-content: center; color: #fff; }
.badge.high { background: #c0392b; }
.badge.medium { background: #e67e22; }
.badge.low { background: #27ae60; }
#notice { min-height: 1.5rem; color: #555; }
form { display: grid; gap: .5rem; margin-bottom: 1rem; }
</style>
</head>
<body>
<header><h1>Priority Notes</h1><button id="delete-all">Delete all notes</button></header>
`

const editorForm = `<form id="editor">
<h2 id="editor-title">Add Note</h2>
<input type="hidden" name="noteId">
<input name="title" placeholder="Title">
<textarea name="description" placeholder="Description"></textarea>
<label>Priority <input type="number" name="priority" min="%d" max="%d" value="%d"></label>
<button type="submit">Save</button>
</form>
`

const pageTail = `
<p id="notice"></p>
<script>
const env = "%s";
const form = document.getElementById("editor");
const notice = document.getElementById("notice");
const fields = form.elements;

function say(msg) { notice.textContent = msg; }

function escape(s) {
  const d = document.createElement("div");
  d.textContent = s;
  return d.innerHTML;
}

function band(p) { return p <= 3 ? "high" : p <= 6 ? "medium" : "low"; }

function render(notes) {
  const list = document.getElementById("notes");
  if (notes.length === 0) { list.innerHTML = '<li class="empty">No notes yet</li>'; return; }
  list.innerHTML = notes.map(n =>
    '<li data-id="' + n.id + '"><span class="badge ' + band(n.priority) + '">' + n.priority + '</span>' +
    '<div class="body"><h3>' + escape(n.title) + '</h3><p>' + escape(n.description) + '</p></div>' +
    '<button class="edit" data-id="' + n.id + '">Edit</button><button class="delete" data-id="' + n.id + '">Delete</button></li>'
  ).join("");
}

async function call(method, url, body) {
  const res = await fetch(url, { method, headers: { "Content-Type": "application/json" }, body: body && JSON.stringify(body) });
  const data = await res.json().catch(() => ({}));
  say(data.message || data.error || "");
  return { ok: res.ok, data };
}

function reset() {
  form.reset();
  fields.noteId.value = "";
  document.getElementById("editor-title").textContent = "Add Note";
}

form.addEventListener("submit", async (e) => {
  e.preventDefault();
  const body = { title: fields.title.value, description: fields.description.value, priority: Number(fields.priority.value) };
  const id = fields.noteId.value;
  const { ok } = id ? await call("PUT", "/api/notes/" + id, body) : await call("POST", "/api/notes", body);
  if (ok) reset();
});

document.getElementById("notes").addEventListener("click", async (e) => {
  const id = e.target.dataset.id;
  if (!id) return;
  if (e.target.classList.contains("delete")) { await call("DELETE", "/api/notes/" + id); return; }
  const { ok, data } = await call("GET", "/api/notes/" + id);
  if (!ok) return;
  fields.noteId.value = data.note.id;
  fields.title.value = data.note.title;
  fields.description.value = data.note.description;
  fields.priority.value = data.note.priority;
  document.getElementById("editor-title").textContent = "Edit Note";
});

document.getElementById("delete-all").addEventListener("click", () => call("DELETE", "/api/notes"));

const stream = new EventSource("/api/notes/stream");
stream.addEventListener("notes", (e) => render(JSON.parse(e.data)));
if (env === "development") stream.onerror = () => console.warn("note stream interrupted");
</script>
</body>
</html>
`
