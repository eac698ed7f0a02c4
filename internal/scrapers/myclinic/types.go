package myclinic

// ScheduleEntry is a single schedule as listed by /schedules/entries, only the
// fields that are read are declared.
type ScheduleEntry struct {
	Id          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Start and End look like 2025-10-24T11:00:00.000-03:00
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
	Note        string `json:"note"`
}

type schedulesResponse struct {
	Schedules []ScheduleEntry `json:"schedules"`
}

type eventDetail struct {
	Id          int64  `json:"id"`
	Description string `json:"description"`
}

// AgendaItem is a schedule entry enriched with the customer's phone.
type AgendaItem struct {
	Id         int64    `json:"id"`
	Date       string   `json:"data"`
	DateTime   string   `json:"dataHora"`
	StartTime  string   `json:"horaInicio"`
	EndTime    string   `json:"horaFim"`
	PersonName string   `json:"nomePessoa"`
	Phone      string   `json:"telefone"`
	Mobile     string   `json:"celular"`
	Services   []string `json:"servicos"`
	Status     string   `json:"status"`
}

// AgendaQuery are the arguments of Client.Agenda.
type AgendaQuery struct {
	// StartDate is YYYY-MM-DD, it is the only date sent upstream.
	StartDate string
	// EndDate is accepted for symmetry but the upstream listing only takes a
	// single day, it has no effect.
	EndDate string
	// ExcludeNoShow drops "falta"/"ausente" entries after StatusFilter ran.
	ExcludeNoShow bool
	// StatusFilter keeps entries whose status contains any of the values,
	// case-insensitively. Empty means no filtering.
	StatusFilter []string
}

// Values the birthday report does not expose.
const (
	PersonIDUnavailable int64 = 0
	SexUnavailable            = ""
	EmailUnavailable          = ""
	// SituationActive is assumed for every celebrant, the report has no
	// situation column.
	SituationActive = "Ativo"
)

// BirthdayEntry is a row of the customers birthdays report.
type BirthdayEntry struct {
	PersonId int64 `json:"pessoaId"`
	// Date is DD/MM/YYYY, as shown by the report.
	Date           string `json:"data"`
	Name           string `json:"nomeCliente"`
	Sex            string `json:"sexo"`
	Phone          string `json:"telefone"`
	Mobile         string `json:"celular"`
	Email          string `json:"email"`
	SituationLabel string `json:"nomeSituacao"`
}

type birthdayRow struct {
	name  string
	phone string
	date  string
}

func (r birthdayRow) entry() BirthdayEntry {
	return BirthdayEntry{
		PersonId:       PersonIDUnavailable,
		Date:           r.date,
		Name:           r.name,
		Sex:            SexUnavailable,
		Phone:          r.phone,
		Mobile:         r.phone,
		Email:          EmailUnavailable,
		SituationLabel: SituationActive,
	}
}
