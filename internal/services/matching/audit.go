package matching

// Audit types both tables, runs the tiered matcher with a fresh claim set and
// assembles the result. Schema and empty-input errors stop the run before any
// matching happens.
func Audit(source *Table, sourceAliases AliasTable, system *Table, systemAliases AliasTable) (*AuditResult, error) {
	for _, t := range []*Table{source, system} {
		if err := checkRows(t); err != nil {
			return nil, err
		}
	}

	srcRecords, err := BuildSourceTable(source, sourceAliases)
	if err != nil {
		return nil, err
	}
	sysRecords, err := BuildSystemTable(system, systemAliases)
	if err != nil {
		return nil, err
	}

	assignments, _ := NewMatcher().Match(srcRecords, sysRecords, NewClaims())
	return Assemble(srcRecords, sysRecords, assignments), nil
}
