package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"finboard/internal/core"
	"finboard/internal/dashboard"
)

// pageData feeds every template; partials read the fields they need.
type pageData struct {
	Title     string
	Tab       dashboard.Tab
	TabTitle  string
	Savings   bool
	AccountID core.ID
	Tabs      []dashboard.TabView
	Panel     dashboard.PanelView
	List      listData
	OOB       bool
}

type listData struct {
	AccountID core.ID
	Loading   bool
	View      dashboard.ListView
}

func newPageData(shell *dashboard.Shell) pageData {
	tab := shell.Tab()
	list := shell.Transactions().View()
	return pageData{
		Title:     dashboard.Title,
		Tab:       tab,
		TabTitle:  tab.Title(),
		Savings:   !tab.Placeholder(),
		AccountID: shell.SelectedAccount(),
		Tabs:      shell.TabViews(),
		Panel:     shell.Panel().View(),
		List: listData{
			AccountID: shell.SelectedAccount(),
			Loading:   list.State == dashboard.ListLoading,
			View:      list,
		},
	}
}

var templateFuncs = template.FuncMap{
	"pageHref": pageHref,
	"vals":     hxVals,
}

// pageHref is the bookmarkable URL of a dashboard state.
func pageHref(tab dashboard.Tab, account core.ID) string {
	q := url.Values{}
	if tab != "" && tab != dashboard.TabSavings {
		q.Set("tab", string(tab))
	}
	if account != "" {
		q.Set("account", account.String())
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// hxVals renders an hx-vals JSON object for one key.
func hxVals(key string, value any) (string, error) {
	var v string
	switch x := value.(type) {
	case string:
		v = x
	case core.ID:
		v = x.String()
	case dashboard.Tab:
		v = string(x)
	default:
		v = ""
	}
	b, err := json.Marshal(map[string]string{key: v})
	return string(b), err
}

// queryAccount reads an account id from the first non-empty key.
func queryAccount(r *http.Request, keys ...string) core.ID {
	q := r.URL.Query()
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return core.ID(v)
		}
	}
	return ""
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
