// Package office exposes the local office automation server (Word, Excel,
// PowerPoint) as togglable capability groups. Each application maps to one
// registry group whose enable hook checks server health and whose disable
// hook closes the active document without saving.
package office
