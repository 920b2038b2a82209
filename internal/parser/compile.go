package parser

import (
	"errors"
	"fmt"

	"github.com/titanous/json5"
)

var ErrNotObject = errors.New("data block is not an object")

// Compile pairs the k-th declaration name with the k-th block. Blocks that do
// not parse are skipped; a later declaration of the same name wins.
func Compile(names, blocks []string) Table {
	table := make(Table)
	for i := 0; i < len(names) && i < len(blocks); i++ {
		entity, err := CompileBlock(blocks[i])
		if err != nil {
			continue
		}
		table[names[i]] = entity
	}
	return table
}

// CompileBlock parses one raw data block as JSON5.
func CompileBlock(block string) (Entity, error) {
	var raw map[string]any
	if err := json5.Unmarshal([]byte(block), &raw); err != nil {
		return nil, fmt.Errorf("compiling data block: %w", err)
	}
	if raw == nil {
		return nil, ErrNotObject
	}
	entity, err := entityFrom(raw)
	if err != nil {
		return nil, fmt.Errorf("compiling data block: %w", err)
	}
	return entity, nil
}
