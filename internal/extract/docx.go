package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"parrot/internal/fault"
)

// docXMLMax caps the uncompressed size of word/document.xml.
const docXMLMax = 50 << 20

var collapseNewlines = regexp.MustCompile(`\n{3,}`)

// extractDocx pulls the visible text out of a .docx archive. Tracked
// deletions are skipped, table cells are joined with tabs.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fault.Wrap(fault.KindUnsupportedEncoding, err,
			"Failed to open docx archive")
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fault.New(fault.KindUnsupportedEncoding,
			"document.xml not found in docx")
	}
	if docFile.UncompressedSize64 > docXMLMax {
		return "", fault.New(fault.KindUnsupportedEncoding,
			"document.xml too large: %d bytes", docFile.UncompressedSize64)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fault.Wrap(fault.KindUnsupportedEncoding, err,
			"Failed to open document.xml")
	}
	defer rc.Close()

	dec := xml.NewDecoder(io.LimitReader(rc, int64(docXMLMax)))

	var sb strings.Builder
	type state struct {
		inText    bool
		delDepth  int
		insideTbl bool
		cellIdx   int
	}
	st := state{}

	writeNewline := func() {
		if sb.Len() == 0 {
			return
		}
		if !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fault.Wrap(fault.KindUnsupportedEncoding, err,
				"Failed to parse document XML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "del":
				st.delDepth++
			case "t":
				st.inText = true
			case "tab":
				if st.delDepth == 0 {
					sb.WriteRune('\t')
				}
			case "br", "cr":
				if st.delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "noBreakHyphen":
				if st.delDepth == 0 {
					sb.WriteRune('-')
				}
			case "softHyphen":
			case "tbl":
				st.insideTbl = true
				st.cellIdx = 0
				writeNewline()
			case "tr":
				st.cellIdx = 0
			case "tc":
				if st.insideTbl && st.delDepth == 0 {
					if st.cellIdx > 0 {
						sb.WriteRune('\t')
					}
					st.cellIdx++
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				st.inText = false
			case "p":
				if st.delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "tr":
				if st.delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "tbl":
				st.insideTbl = false
				if st.delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "del":
				if st.delDepth > 0 {
					st.delDepth--
				}
			}

		case xml.CharData:
			if st.delDepth != 0 || !st.inText {
				continue
			}
			sb.WriteString(string([]byte(t)))
		}
	}

	text := strings.TrimSpace(sb.String())
	text = collapseNewlines.ReplaceAllString(text, "\n\n")
	if text == "" {
		return "", fault.New(fault.KindEmptyFile, "The file is empty")
	}

	return text, nil
}
