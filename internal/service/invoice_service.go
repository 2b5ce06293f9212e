package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/ahavlova/portfolio-backend/internal/config"
	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/pkg/apperror"
)

const invoiceDateLayout = "2006-01-02"

// InvoiceService собирает фактуру из формы и реквизитов поставщика.
// Документ нигде не хранится: собранная фактура сразу уходит в ответ.
type InvoiceService struct {
	cfg config.InvoiceConfig
	// now подменяется в тестах для детерминированных дат.
	now func() time.Time
}

// NewInvoiceService создаёт сервис фактур с реквизитами из конфигурации.
func NewInvoiceService(cfg config.InvoiceConfig) *InvoiceService {
	return &InvoiceService{cfg: cfg, now: time.Now}
}

// Assemble валидирует форму и собирает фактуру вместе с платёжной строкой
// чешского стандарта SPD. Вариабельный символ — цифры из номера фактуры.
func (s *InvoiceService) Assemble(input models.InvoiceInput) (*models.Invoice, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	issue, due, err := s.resolveDates(input)
	if err != nil {
		return nil, err
	}

	vs := digitsOnly(input.InvoiceNumber)

	return &models.Invoice{
		InvoiceNumber:   strings.TrimSpace(input.InvoiceNumber),
		VariableSymbol:  vs,
		IssueDate:       issue.Format(invoiceDateLayout),
		DueDate:         due.Format(invoiceDateLayout),
		SupplierName:    s.cfg.SupplierName,
		SupplierAddress: s.cfg.SupplierAddress,
		SupplierICO:     s.cfg.SupplierICO,
		ClientName:      strings.TrimSpace(input.ClientName),
		ClientAddress1:  strings.TrimSpace(input.ClientAddress1),
		ClientAddress2:  strings.TrimSpace(input.ClientAddress2),
		ClientICO:       strings.TrimSpace(input.ClientICO),
		ItemDescription: strings.TrimSpace(input.ItemDescription),
		ItemPrice:       input.ItemPrice,
		Currency:        "CZK",
		PaymentString:   BuildPaymentString(s.cfg.IBAN, input.ItemPrice, vs),
	}, nil
}

// PaymentQR кодирует платёжную строку фактуры в PNG с QR-кодом.
func (s *InvoiceService) PaymentQR(input models.InvoiceInput, size int) ([]byte, error) {
	inv, err := s.Assemble(input)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(inv.PaymentString, qrcode.Medium, size)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось собрать QR-код")
	}
	return png, nil
}

// BuildPaymentString собирает строку SPD 1.0 для платёжных QR-кодов
// чешских банков. IBAN хранится с пробелами для печати, в строке они
// убираются.
func BuildPaymentString(iban string, amount float64, variableSymbol string) string {
	acc := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	payment := fmt.Sprintf("SPD*1.0*ACC:%s*AM:%.2f*CC:CZK", acc, amount)
	if variableSymbol != "" {
		payment += "*VS:" + variableSymbol
	}
	return payment
}

func (s *InvoiceService) validate(input models.InvoiceInput) error {
	switch {
	case strings.TrimSpace(input.InvoiceNumber) == "":
		return apperror.New(apperror.ErrCodeValidation, "номер фактуры не может быть пустым")
	case digitsOnly(input.InvoiceNumber) == "":
		return apperror.New(apperror.ErrCodeValidation, "номер фактуры должен содержать цифры")
	case strings.TrimSpace(input.ClientName) == "":
		return apperror.New(apperror.ErrCodeValidation, "имя клиента не может быть пустым")
	case strings.TrimSpace(input.ClientAddress1) == "":
		return apperror.New(apperror.ErrCodeValidation, "адрес клиента не может быть пустым")
	case strings.TrimSpace(input.ClientAddress2) == "":
		return apperror.New(apperror.ErrCodeValidation, "город и индекс клиента не могут быть пустыми")
	case strings.TrimSpace(input.ItemDescription) == "":
		return apperror.New(apperror.ErrCodeValidation, "описание услуги не может быть пустым")
	case input.ItemPrice <= 0:
		return apperror.New(apperror.ErrCodeValidation, "цена должна быть больше нуля")
	case s.cfg.IBAN == "":
		return apperror.New(apperror.ErrCodeInternal, "IBAN поставщика не настроен")
	}
	return nil
}

// resolveDates подставляет сегодняшнюю дату выставления и срок оплаты из
// конфигурации, если форма их не задала.
func (s *InvoiceService) resolveDates(input models.InvoiceInput) (time.Time, time.Time, error) {
	issue := s.now()
	if input.IssueDate != "" {
		parsed, err := time.Parse(invoiceDateLayout, input.IssueDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.New(apperror.ErrCodeValidation, "неверный формат даты выставления")
		}
		issue = parsed
	}

	due := issue.AddDate(0, 0, s.cfg.DueDays)
	if input.DueDate != "" {
		parsed, err := time.Parse(invoiceDateLayout, input.DueDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.New(apperror.ErrCodeValidation, "неверный формат срока оплаты")
		}
		if parsed.Before(issue) {
			return time.Time{}, time.Time{}, apperror.New(apperror.ErrCodeValidation, "срок оплаты раньше даты выставления")
		}
		due = parsed
	}
	return issue, due, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
