package main

// Analyze a single document from the command line:
//   go run ./cmd/analyze -file hanketeade.docx

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"hange-backend/internal/bootstrap"
	"hange-backend/internal/extract"
	"hange-backend/internal/shared/config"
)

func main() {
	filePath := flag.String("file", "", "path of the document to analyze")
	docType := flag.String("type", "", "document type override (docx, xlsx, pdf, txt)")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read file: %v", err)
	}

	documentType := *docType
	if documentType == "" {
		documentType = extract.TypeFromFilename(*filePath)
	}

	app, err := bootstrap.Build(config.Load())
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	result, err := app.AnalysisSvc.ProcessDocument(context.Background(), data, documentType)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	out := struct {
		Analysis         any `json:"analysis"`
		ValidationIssues any `json:"validation_issues"`
	}{
		Analysis:         result,
		ValidationIssues: app.AnalysisSvc.Validate(result.FormFields),
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(encoded))
}
