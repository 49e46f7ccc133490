// Command loader reads a scraper CSV export of processos and submits it to
// the sync endpoint in batches.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/charmap"

	"github.com/previdsoft/procsync/internal/reconcile"
	"github.com/previdsoft/procsync/internal/response"
)

const defaultBatchSize = 100

type syncPayload struct {
	IDEmpresa int64                 `json:"id_empresa"`
	Processos []reconcile.ItemInput `json:"processos"`
}

func main() {
	var (
		file      = flag.String("file", "", "CSV file exported by the scraper")
		url       = flag.String("url", "http://localhost:8080/sync", "sync endpoint URL")
		key       = flag.String("key", "", "tenant API key")
		empresaID = flag.Int64("empresa", 0, "tenant id (id_empresa)")
		latin1    = flag.Bool("latin1", false, "decode the CSV as ISO-8859-1 before parsing")
		batchSize = flag.Int("batch", defaultBatchSize, "items per sync request")
	)
	flag.Parse()

	if *file == "" || *key == "" || *empresaID == 0 {
		flag.Usage()
		os.Exit(2)
	}

	items, err := readItems(*file, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loader: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d processos lidos de %s\n", len(items), *file)

	client := &http.Client{Timeout: 2 * time.Minute}
	for start := 0; start < len(items); start += *batchSize {
		end := min(start+*batchSize, len(items))
		result, err := postBatch(client, *url, *key, *empresaID, items[start:end])
		if err != nil {
			fmt.Fprintf(os.Stderr, "loader: lote %d-%d: %v\n", start, end, err)
			os.Exit(1)
		}
		fmt.Printf("lote %d-%d: processados=%d mudancas=%d total=%d\n",
			start, end, result.Processados, result.Mudancas, result.Total)
	}
}

func readItems(path string, latin1 bool) ([]reconcile.ItemInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if latin1 {
		// Scraper exports produced by legacy tooling come out in ISO-8859-1.
		reader = charmap.ISO8859_1.NewDecoder().Reader(f)
	}

	df := dataframe.ReadCSV(reader,
		dataframe.WithDelimiter(';'),
		dataframe.HasHeader(true),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	items := make([]reconcile.ItemInput, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		items = append(items, reconcile.ItemInput{
			Protocolo:         getStr("Protocolo", i, &df),
			CPF:               getStr("CPF", i, &df),
			Servico:           getStr("Serviço", i, &df),
			Situacao:          getStr("Situação", i, &df),
			Nome:              getStr("Nome", i, &df),
			UltimaAtualizacao: getStr("Última Atualização", i, &df),
			DataProtocolo:     getStr("Data do Protocolo", i, &df),
		})
	}
	return items, nil
}

func getStr(col string, rowIdx int, df *dataframe.DataFrame) string {
	for _, name := range df.Names() {
		if name == col {
			return df.Col(col).Elem(rowIdx).String()
		}
	}
	return ""
}

func postBatch(client *http.Client, url, key string, empresaID int64, items []reconcile.ItemInput) (*response.SyncResult, error) {
	body, err := json.Marshal(syncPayload{IDEmpresa: empresaID, Processos: items})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", key)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sync retornou %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var result response.SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
