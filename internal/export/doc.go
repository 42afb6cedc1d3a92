// Package export turns a selection of records into text and puts it on the
// clipboard or into a file.
//
// TSV is used for the clipboard (it pastes cleanly into spreadsheets); CSV
// is used for files. Clipboard prefers the native clipboard and falls back
// to OSC 52.
package export
