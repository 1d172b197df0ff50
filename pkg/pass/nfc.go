package pass

const maxNFCMessageBytes = 64

// NFC is the payload sent to a contactless reader.
type NFC struct {
	Message string `json:"message"`
	// EncryptionPublicKey is the reader's base64 encoded public key.
	EncryptionPublicKey    string `json:"encryptionPublicKey"`
	RequiresAuthentication bool   `json:"requiresAuthentication,omitempty"`
}

func (n *NFC) check(p *problems) {
	if n == nil {
		return
	}
	if n.Message == "" {
		p.addf("nfc: message is required")
	}
	if len(n.Message) > maxNFCMessageBytes {
		p.addf("nfc: message must be at most %d bytes, got %d", maxNFCMessageBytes, len(n.Message))
	}
	if n.EncryptionPublicKey == "" {
		p.addf("nfc: encryptionPublicKey is required")
	}
}
