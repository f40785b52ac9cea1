package siscomex

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const tabxPath = "/tabx/api/ext"

// TabxTable describes one reference table available on the TABX service.
type TabxTable struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
}

// TabxAPI exposes the TABX reference-table service used to hydrate the
// support tables. Reference data is read-mostly; the pipelines never require
// it to be populated.
type TabxAPI interface {
	// ListTables enumerates the reference tables the service publishes.
	ListTables(ctx context.Context) ([]TabxTable, error)

	// GetTableRows fetches the current rows of one reference table as loose
	// JSON objects; the store maps them onto the suporte_* columns.
	GetTableRows(ctx context.Context, name string) ([]map[string]interface{}, error)
}

type tabxAPI struct {
	client  Client
	baseURL string
}

// NewTabxAPI creates the TABX endpoint wrapper over a gated client. TABX calls
// count against the same hourly ceiling as the DUE endpoints.
func NewTabxAPI(client Client, baseURL string) TabxAPI {
	return &tabxAPI{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/") + tabxPath,
	}
}

func (a *tabxAPI) ListTables(ctx context.Context) ([]TabxTable, error) {
	var tables []TabxTable
	if err := a.client.GetJSON(ctx, a.baseURL+"/tabela", &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (a *tabxAPI) GetTableRows(ctx context.Context, name string) ([]map[string]interface{}, error) {
	rowsURL := fmt.Sprintf("%s/tabela/%s?nivel=a", a.baseURL, url.PathEscape(name))

	var rows []map[string]interface{}
	if err := a.client.GetJSON(ctx, rowsURL, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
