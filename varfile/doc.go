// Package varfile loads user defined placeholder values. Files hold one
// "KEY VALUE" pair per line, the first space being the delimiter; each KEY
// becomes the placeholder ${KEY}. Later files override earlier ones.
package varfile
