// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// nameTable resolves a handful of nameIDs out of the `name` table — just
// enough to fill in Axis.Name and named-instance subfamily strings, not a
// general-purpose name-table reader. Grounded on the teacher's use of
// golang.org/x/text for platform-string decoding; the `name` table's two
// common platforms are Windows (platform 3, UTF-16BE) and Macintosh
// (platform 1, Mac Roman), handled here with
// golang.org/x/text/encoding/unicode and golang.org/x/text/encoding/charmap
// respectively instead of a hand-rolled UTF-16/Mac-Roman decoder.
type nameTable struct {
	byID map[uint16]string
}

// parseName decodes the name table's records, keeping only the first
// string seen per nameID and preferring Windows/English-US records (the
// common case for machine-readable axis/instance names) over other
// platform/language entries.
func parseName(data []byte) (*nameTable, error) {
	if len(data) < 6 {
		return nil, ErrInvalidTable
	}
	count, err := u16At(data, 2)
	if err != nil {
		return nil, err
	}
	storageOffset, err := u16At(data, 4)
	if err != nil {
		return nil, err
	}

	utf16Dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

	n := &nameTable{byID: make(map[uint16]string)}
	preferred := make(map[uint16]bool)

	recOff := 6
	for i := 0; i < int(count); i++ {
		if recOff+12 > len(data) {
			break
		}
		platformID, _ := u16At(data, recOff)
		encodingID, _ := u16At(data, recOff+2)
		languageID, _ := u16At(data, recOff+4)
		nameID, _ := u16At(data, recOff+6)
		length, _ := u16At(data, recOff+8)
		nameOffset, _ := u16At(data, recOff+10)
		recOff += 12

		start := int(storageOffset) + int(nameOffset)
		end := start + int(length)
		if start < 0 || end > len(data) {
			continue
		}
		raw := data[start:end]

		var s string
		switch platformID {
		case 3, 0: // Windows or Unicode: UTF-16BE
			decoded, err := utf16Dec.Bytes(raw)
			if err != nil {
				continue
			}
			s = string(decoded)
		case 1: // Macintosh, encoding 0 = Mac Roman
			if encodingID != 0 {
				continue
			}
			decoded, err := charmap.Macintosh.NewDecoder().Bytes(raw)
			if err != nil {
				continue
			}
			s = string(decoded)
		default:
			continue
		}
		if s == "" {
			continue
		}

		isPreferred := platformID == 3 && encodingID == 1 && languageID == 0x0409
		if n.byID[nameID] == "" || (isPreferred && !preferred[nameID]) {
			n.byID[nameID] = s
			preferred[nameID] = isPreferred
		}
	}

	return n, nil
}

func (n *nameTable) get(id uint16) string {
	if n == nil {
		return ""
	}
	return n.byID[id]
}
