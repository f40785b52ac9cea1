package siscomex

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/normalizer"
)

const duePath = "/due/api/ext/due"

// DueLink is one entry of the lookup-by-invoice response. Rel carries the DUE
// number and Href the canonical detail URL.
type DueLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// DueAPI exposes the typed DUE endpoints of the Portal Único.
//
//go:generate mockgen -source=due.go -destination=../mocks/due_api.go -package=mocks -mock_names=DueAPI=MockDueAPI
type DueAPI interface {
	// LookupByInvoice resolves the DUE numbers referencing one invoice key.
	// An invoice without an export declaration yields an empty slice.
	LookupByInvoice(ctx context.Context, key domain.InvoiceKey) ([]domain.DueNumber, error)

	// GetDue fetches the full principal payload of one DUE.
	GetDue(ctx context.Context, number domain.DueNumber) (*normalizer.DuePayload, error)

	// ProbeRevision fetches only the registration timestamp and situation.
	// It costs one gate slot like any other call.
	ProbeRevision(ctx context.Context, number domain.DueNumber) (*domain.Revision, error)

	// GetSuspensionActs fetches the drawback suspension concessionary acts.
	GetSuspensionActs(ctx context.Context, number domain.DueNumber) ([]normalizer.ConcessionaryAct, error)

	// GetExemptionActs fetches the drawback exemption concessionary acts.
	GetExemptionActs(ctx context.Context, number domain.DueNumber) ([]normalizer.ConcessionaryAct, error)

	// GetFiscalRequirements fetches the fiscal requirements of one DUE.
	GetFiscalRequirements(ctx context.Context, number domain.DueNumber) ([]normalizer.FiscalRequirement, error)
}

type dueAPI struct {
	client  Client
	baseURL string
}

// NewDueAPI creates the typed endpoint wrapper over a gated client.
func NewDueAPI(client Client, baseURL string) DueAPI {
	return &dueAPI{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/") + duePath,
	}
}

// LookupByInvoice lists the DUEs referencing one invoice. The upstream may
// return several links when more than one declaration consumed the invoice;
// all of them are reported.
func (a *dueAPI) LookupByInvoice(ctx context.Context, key domain.InvoiceKey) ([]domain.DueNumber, error) {
	lookupURL := fmt.Sprintf("%s?nota-fiscal=%s", a.baseURL, url.QueryEscape(string(key)))

	var links []DueLink
	if err := a.client.GetJSON(ctx, lookupURL, &links); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	numbers := make([]domain.DueNumber, 0, len(links))
	for _, link := range links {
		if link.Rel == "" {
			continue
		}
		numbers = append(numbers, domain.DueNumber(link.Rel))
	}
	return numbers, nil
}

// GetDue fetches the full payload of one DUE.
func (a *dueAPI) GetDue(ctx context.Context, number domain.DueNumber) (*normalizer.DuePayload, error) {
	var payload normalizer.DuePayload
	detailURL := fmt.Sprintf("%s/numero-da-due/%s", a.baseURL, url.PathEscape(string(number)))
	if err := a.client.GetJSON(ctx, detailURL, &payload); err != nil {
		return nil, err
	}
	if payload.Numero == "" {
		return nil, fmt.Errorf("%w: payload for %s carries no number", domain.ErrNormalizer, number)
	}
	return &payload, nil
}

// ProbeRevision performs the cheap freshness check. The upstream exposes no
// dedicated endpoint so the probe is a full GET decoded only for the two
// fields that matter; the saving is in the skipped auxiliary calls and the
// skipped re-normalization, not in this request.
func (a *dueAPI) ProbeRevision(ctx context.Context, number domain.DueNumber) (*domain.Revision, error) {
	var probe struct {
		Numero         string                    `json:"numero"`
		Situacao       string                    `json:"situacao"`
		DataDeRegistro normalizer.OffsetDatetime `json:"dataDeRegistro"`
	}
	detailURL := fmt.Sprintf("%s/numero-da-due/%s", a.baseURL, url.PathEscape(string(number)))
	if err := a.client.GetJSON(ctx, detailURL, &probe); err != nil {
		return nil, err
	}
	return &domain.Revision{
		DueNumber:  number,
		Situation:  probe.Situacao,
		RemoteTime: probe.DataDeRegistro.Time(),
	}, nil
}

// GetSuspensionActs fetches drawback suspension acts; a DUE without drawback
// yields an empty slice.
func (a *dueAPI) GetSuspensionActs(ctx context.Context, number domain.DueNumber) ([]normalizer.ConcessionaryAct, error) {
	actsURL := fmt.Sprintf("%s/%s/drawback/suspensao/atos-concessorios", a.baseURL, url.PathEscape(string(number)))
	return a.getActs(ctx, actsURL)
}

// GetExemptionActs fetches drawback exemption acts.
func (a *dueAPI) GetExemptionActs(ctx context.Context, number domain.DueNumber) ([]normalizer.ConcessionaryAct, error) {
	actsURL := fmt.Sprintf("%s/%s/drawback/isencao/atos-concessorios", a.baseURL, url.PathEscape(string(number)))
	return a.getActs(ctx, actsURL)
}

func (a *dueAPI) getActs(ctx context.Context, actsURL string) ([]normalizer.ConcessionaryAct, error) {
	var acts []normalizer.ConcessionaryAct
	if err := a.client.GetJSON(ctx, actsURL, &acts); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return acts, nil
}

// GetFiscalRequirements fetches the fiscal requirements of one DUE.
func (a *dueAPI) GetFiscalRequirements(ctx context.Context, number domain.DueNumber) ([]normalizer.FiscalRequirement, error) {
	reqURL := fmt.Sprintf("%s/%s/exigencias-fiscais", a.baseURL, url.PathEscape(string(number)))

	var reqs []normalizer.FiscalRequirement
	if err := a.client.GetJSON(ctx, reqURL, &reqs); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return reqs, nil
}
