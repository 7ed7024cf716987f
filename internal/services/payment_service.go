package services

import (
	"context"
	"sort"
	"strings"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/upstream"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

// pseBanks is the fixed whitelist of PSE bank codes accepted by the rail.
// Matching is exact; anything else is rejected before leaving the process.
var pseBanks = map[string]string{
	"1001": "Banco de Bogotá",
	"1002": "Banco Popular",
	"1006": "Banco Itaú",
	"1007": "Bancolombia",
	"1009": "Citibank",
	"1012": "Banco GNB Sudameris",
	"1013": "BBVA Colombia",
	"1019": "Scotiabank Colpatria",
	"1023": "Banco de Occidente",
	"1032": "Banco Caja Social",
	"1040": "Banco Agrario",
	"1051": "Banco Davivienda",
	"1052": "Banco AV Villas",
	"1060": "Banco Pichincha",
	"1061": "Bancoomeva",
	"1062": "Banco Falabella",
	"1066": "Banco Cooperativo Coopcentral",
	"1551": "Daviplata",
	"1801": "Movii",
}

// PaymentAPI is the slice of the upstream client the payment proxy needs.
type PaymentAPI interface {
	CreatePSEPayment(ctx context.Context, req upstream.PSERequest) (upstream.PSEResponse, error)
}

// PaymentService validates and forwards PSE payment requests. The rail
// answers 200 with an Error field for business failures and that contract
// is preserved for the callers of this proxy.
type PaymentService struct {
	API PaymentAPI
}

// InitiatePSE validates the request and asks the rail for a redirect URL.
// Validation failures return ValidationError; transport failures return
// the upstream error untouched.
func (s PaymentService) InitiatePSE(ctx context.Context, req upstream.PSERequest) (upstream.PSEResponse, error) {
	req.BankCode = utils.TrimOrEmpty(req.BankCode)
	req.Email = utils.TrimOrEmpty(req.Email)
	req.DocumentNumber = utils.TrimOrEmpty(req.DocumentNumber)

	if req.Amount <= 0 {
		return upstream.PSEResponse{}, domain.ValidationError{Field: "amount", Msg: "debe ser mayor que cero"}
	}
	if _, ok := pseBanks[req.BankCode]; !ok {
		return upstream.PSEResponse{}, domain.ValidationError{Field: "bankCode", Msg: "banco no soportado"}
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return upstream.PSEResponse{}, domain.ValidationError{Field: "email", Msg: "correo no válido"}
	}
	if req.DocumentNumber == "" {
		return upstream.PSEResponse{}, domain.ValidationError{Field: "documentNumber", Msg: "es obligatorio"}
	}

	resp, err := s.API.CreatePSEPayment(ctx, req)
	if err != nil {
		return upstream.PSEResponse{}, err
	}
	if resp.Error != "" {
		utils.LogEvent("", "payment", "pse", "rail rejected payment: "+resp.Error)
	}
	return resp, nil
}

// BankName resolves a whitelisted code to its display name.
func BankName(code string) (string, bool) {
	name, ok := pseBanks[code]
	return name, ok
}

// PSEBankOption is one entry of the bank selector on the payment form.
type PSEBankOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// PSEBankOptions lists the supported banks sorted by code.
func PSEBankOptions() []PSEBankOption {
	codes := make([]string, 0, len(pseBanks))
	for code := range pseBanks {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]PSEBankOption, 0, len(codes))
	for _, code := range codes {
		name, _ := BankName(code)
		out = append(out, PSEBankOption{Code: code, Name: name})
	}
	return out
}
