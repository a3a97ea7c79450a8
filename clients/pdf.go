package clients

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFClient converte testo multilinea in un documento PDF impaginato
type PDFClient struct {
	outputDir string
}

// NewPDFClient crea il client; i documenti finiscono nella directory dati
func NewPDFClient(outputDir string) *PDFClient {
	return &PDFClient{outputDir: outputDir}
}

// Render scrive il testo in un PDF: ogni riga diventa un blocco di paragrafo
func (p *PDFClient) Render(text string) (string, error) {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("errore nella creazione della directory: %v", err)
	}

	fileName := fmt.Sprintf("%d_doc.pdf", time.Now().Unix())
	path := filepath.Join(p.outputDir, fileName)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)

	for _, line := range strings.Split(text, "\n") {
		pdf.MultiCell(0, 6, line, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("errore nella scrittura del PDF: %v", err)
	}
	return path, nil
}
