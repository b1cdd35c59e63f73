package collaborator

// Collaborator is one row of the colaboradores table. JSON field names
// follow the table's legacy casing, which the frontend depends on.
type Collaborator struct {
	ID      int64   `json:"Id"`
	Reg     string  `json:"Reg"`
	Name    string  `json:"Nome"`
	CPF     string  `json:"CPF"`
	Company string  `json:"Empresa"`
	Email   *string `json:"Email"`
	Phone   *string `json:"Telefone"`
}
