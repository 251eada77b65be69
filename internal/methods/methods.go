// Package methods holds the fixed, ordered HTTP method table that the
// parser identifies request methods against. The table is a process-wide
// constant, not something callers configure.
package methods

// Table is the canonical, ordered list of method tokens. Index order is
// part of the external interface: callers receive a method as an index
// into this table, not as a string, so the order here must never change.
var Table = []string{
	"DELETE",
	"GET",
	"HEAD",
	"POST",
	"PUT",
	"CONNECT",
	"OPTIONS",
	"TRACE",
	"COPY",
	"LOCK",
	"MKCOL",
	"MOVE",
	"PROPFIND",
	"PROPPATCH",
	"SEARCH",
	"UNLOCK",
	"BIND",
	"REBIND",
	"UNBIND",
	"ACL",
	"REPORT",
	"MKACTIVITY",
	"CHECKOUT",
	"MERGE",
	"M-SEARCH",
	"NOTIFY",
	"SUBSCRIBE",
	"UNSUBSCRIBE",
	"PATCH",
	"PURGE",
	"MKCALENDAR",
	"LINK",
	"UNLINK",
}

// Connect is the index of the CONNECT method, needed by the framing
// resolver's upgrade decision (spec'd as a fixed-method check).
var Connect = indexOf("CONNECT")

func indexOf(name string) int {
	for i, m := range Table {
		if m == name {
			return i
		}
	}
	panic("methods: " + name + " missing from table")
}

// Index returns the table position of name using an exact, case-sensitive
// match. A 33-entry linear scan is cheap enough that a perfect hash or
// trie buys nothing here.
func Index(name string) (int, bool) {
	for i, m := range Table {
		if m == name {
			return i, true
		}
	}
	return 0, false
}

// Name returns the method token stored at i. Callers are expected to only
// pass indices obtained from Index.
func Name(i int) string {
	return Table[i]
}
