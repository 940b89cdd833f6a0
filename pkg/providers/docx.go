package providers

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nodewee/doc-highlight/pkg/utils"
)

const (
	docxMainPart = "word/document.xml"
	wordprocML   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	markupCompat = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// ReadDocxParagraphs returns the text of every body-level paragraph in
// document order. Empty paragraphs are kept so numbering matches what a word
// processor shows.
func ReadDocxParagraphs(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, utils.NewMalformedInputError(fmt.Sprintf("cannot open %s as a docx package", path), err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxMainPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, utils.NewMalformedInputError("cannot read "+docxMainPart, err)
		}
		defer rc.Close()
		paragraphs, err := parseDocumentXML(rc)
		if err != nil {
			return nil, utils.NewMalformedInputError("cannot parse "+docxMainPart, err)
		}
		return paragraphs, nil
	}
	return nil, utils.NewMalformedInputError(fmt.Sprintf("%s has no %s part", path, docxMainPart), nil)
}

// parseDocumentXML walks the token stream and collects paragraphs that are
// direct children of w:body. Table paragraphs are skipped, and so is any text
// held in drawings, VML shapes, text boxes or alternate content inside a
// paragraph.
func parseDocumentXML(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		stack      []string
		current    strings.Builder
		inPara     bool
		inText     bool
		skipDepth  int
	)
	isW := func(n xml.Name, local string) bool {
		return n.Space == wordprocML && n.Local == local
	}
	embedded := func(n xml.Name) bool {
		return isW(n, "drawing") || isW(n, "pict") || isW(n, "txbxContent") ||
			(n.Space == markupCompat && n.Local == "AlternateContent")
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.Name.Space+" "+t.Name.Local)

			if skipDepth > 0 || (inPara && embedded(t.Name)) {
				skipDepth++
				continue
			}

			switch {
			case isW(t.Name, "p") && parent == wordprocML+" body":
				inPara = true
				current.Reset()
			case !inPara:
			case isW(t.Name, "t"):
				inText = true
			case isW(t.Name, "tab"):
				current.WriteByte('\t')
			case isW(t.Name, "br"), isW(t.Name, "cr"):
				current.WriteByte('\n')
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			switch {
			case isW(t.Name, "t"):
				inText = false
			case isW(t.Name, "p") && inPara && len(stack) > 0 && stack[len(stack)-1] == wordprocML+" body":
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}

		case xml.CharData:
			if inPara && inText && skipDepth == 0 {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
