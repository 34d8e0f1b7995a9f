// Package source reads PDF files and replays the glyphs of their pages.
//
// It is the boundary to the tabula parser: files are opened with the tabula
// reader, encrypted files are first decrypted with pdfcpu, and each page's
// content streams are run through a glyph.Interpreter with the page's fonts
// and form XObjects.
package source
