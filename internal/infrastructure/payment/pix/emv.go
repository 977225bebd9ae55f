package pix

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// EMV field ids of the BR Code static/dynamic payload.
const (
	emvPayloadFormat    = "00"
	emvMerchantAccount  = "26"
	emvMerchantCategory = "52"
	emvCurrency         = "53"
	emvAmount           = "54"
	emvCountry          = "58"
	emvMerchantName     = "59"
	emvMerchantCity     = "60"
	emvAdditionalData   = "62"
	emvCRC              = "63"

	pixGUI          = "br.gov.bcb.pix"
	currencyBRL     = "986"
	maxNameLength   = 25
	maxCityLength   = 15
	maxTxIDLength   = 25
	maxPixKeyLength = 77
)

// EMVPayload describes a copy-and-paste PIX code.
type EMVPayload struct {
	Key          string
	MerchantName string
	MerchantCity string
	Amount       string // major units, two decimals
	TxID         string
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// String renders the payload with its trailing CRC16 field.
func (p EMVPayload) String() string {
	key := truncate(p.Key, maxPixKeyLength)
	account := emvField("00", pixGUI) + emvField("01", key)

	txid := sanitizeTxID(p.TxID)
	if txid == "" {
		txid = "***"
	}

	var b strings.Builder
	b.WriteString(emvField(emvPayloadFormat, "01"))
	b.WriteString(emvField(emvMerchantAccount, account))
	b.WriteString(emvField(emvMerchantCategory, "0000"))
	b.WriteString(emvField(emvCurrency, currencyBRL))
	if p.Amount != "" {
		b.WriteString(emvField(emvAmount, p.Amount))
	}
	b.WriteString(emvField(emvCountry, "BR"))
	b.WriteString(emvField(emvMerchantName, truncate(asciiUpper(p.MerchantName), maxNameLength)))
	b.WriteString(emvField(emvMerchantCity, truncate(asciiUpper(p.MerchantCity), maxCityLength)))
	b.WriteString(emvField(emvAdditionalData, emvField("05", txid)))
	b.WriteString(emvCRC + "04")

	body := b.String()
	return body + fmt.Sprintf("%04X", crc16CCITT([]byte(body)))
}

// crc16CCITT is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), as required by the BR Code.
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// ValidEMVChecksum reports whether payload ends with a correct CRC field.
func ValidEMVChecksum(payload string) bool {
	if len(payload) < 8 || payload[len(payload)-8:len(payload)-4] != emvCRC+"04" {
		return false
	}
	body, sum := payload[:len(payload)-4], payload[len(payload)-4:]
	return fmt.Sprintf("%04X", crc16CCITT([]byte(body))) == sum
}

// asciiUpper strips accents, since BR Code readers expect plain ASCII.
func asciiUpper(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r < unicode.MaxASCII {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return strings.TrimSpace(b.String())
}

func sanitizeTxID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return truncate(b.String(), maxTxIDLength)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
