package pass

import "strings"

type BarcodeFormat string

const (
	BarcodeQR      BarcodeFormat = "PKBarcodeFormatQR"
	BarcodePDF417  BarcodeFormat = "PKBarcodeFormatPDF417"
	BarcodeAztec   BarcodeFormat = "PKBarcodeFormatAztec"
	BarcodeCode128 BarcodeFormat = "PKBarcodeFormatCode128"
)

// Common message encodings.
const (
	EncodingISO88591 = "iso-8859-1"
	EncodingUTF8     = "utf-8"
	EncodingASCII    = "us-ascii"
)

// barcodeEncodings lists the message encodings each format can carry.
var barcodeEncodings = map[BarcodeFormat][]string{
	BarcodeQR:      {EncodingISO88591, EncodingUTF8},
	BarcodePDF417:  {EncodingISO88591, EncodingUTF8},
	BarcodeAztec:   {EncodingISO88591, EncodingUTF8},
	BarcodeCode128: {EncodingISO88591, EncodingASCII},
}

// Barcode is one barcode displayed on the pass. The wallet shows the first
// barcode the device supports.
type Barcode struct {
	Format          BarcodeFormat `json:"format"`
	Message         string        `json:"message"`
	MessageEncoding string        `json:"messageEncoding"`
	AltText         string        `json:"altText,omitempty"`
}

// NewBarcode returns a barcode with the iso-8859-1 encoding every format accepts.
func NewBarcode(format BarcodeFormat, message string) Barcode {
	return Barcode{Format: format, Message: message, MessageEncoding: EncodingISO88591}
}

// ValidEncoding reports whether the format and encoding are a recognised pair.
// Encoding names are compared case-insensitively.
func (b Barcode) ValidEncoding() bool {
	for _, enc := range barcodeEncodings[b.Format] {
		if strings.EqualFold(enc, b.MessageEncoding) {
			return true
		}
	}
	return false
}

func (b Barcode) check(i int, p *problems) {
	if _, ok := barcodeEncodings[b.Format]; !ok {
		p.addf("barcodes[%d]: unknown format %q", i, b.Format)
		return
	}
	if b.Message == "" {
		p.addf("barcodes[%d]: message is required", i)
	}
	if !b.ValidEncoding() {
		p.addf("barcodes[%d]: encoding %q is not supported by %s", i, b.MessageEncoding, b.Format)
	}
}
