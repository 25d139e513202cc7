package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

// BOMValidator checks the structure of a loaded dataset before resolution
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation.
// Errors make resolution fail or silently lose requirements; warnings
// describe data that resolves but is probably not what was meant.
type ValidationResult struct {
	HasCycles          bool
	CyclePaths         [][]entities.PartID
	DuplicateLines     []entities.BOMLine
	DanglingLines      []entities.BOMLine
	BasePartsWithLines []entities.PartID
	EmptyAssemblies    []entities.PartID
	Errors             []string
	Warnings           []string
}

// IsValid reports whether no errors were found
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateBOM performs all structural checks on parts and their BOM lines
func (v *BOMValidator) ValidateBOM(parts []entities.Part, bomLines []entities.BOMLine) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:         make([][]entities.PartID, 0),
		DuplicateLines:     make([]entities.BOMLine, 0),
		DanglingLines:      make([]entities.BOMLine, 0),
		BasePartsWithLines: make([]entities.PartID, 0),
		EmptyAssemblies:    make([]entities.PartID, 0),
		Errors:             make([]string, 0),
		Warnings:           make([]string, 0),
	}

	partsByID := make(map[entities.PartID]entities.Part, len(parts))
	for _, part := range parts {
		partsByID[part.ID] = part
	}

	adjacencyMap := v.buildAdjacencyMap(bomLines)

	result.CyclePaths = v.detectCycles(adjacencyMap)
	result.HasCycles = len(result.CyclePaths) > 0
	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %s", formatPath(cycle)))
	}

	result.DanglingLines = v.detectDanglingLines(partsByID, bomLines)
	for _, line := range result.DanglingLines {
		result.Errors = append(result.Errors,
			fmt.Sprintf("BOM line %d -> %d references an unknown part", line.ParentID, line.SubPartID))
	}

	result.DuplicateLines = v.detectDuplicateLines(bomLines)
	if len(result.DuplicateLines) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d duplicate BOM lines", len(result.DuplicateLines)))
	}

	result.BasePartsWithLines, result.EmptyAssemblies = v.checkAssemblyFlags(parts, adjacencyMap)
	for _, id := range result.BasePartsWithLines {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Part %d is not an assembly but has BOM lines; they are ignored", id))
	}
	for _, id := range result.EmptyAssemblies {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Assembly %d has no BOM lines and contributes nothing", id))
	}

	return result
}

// buildAdjacencyMap creates a map of parent -> distinct children in line order
func (v *BOMValidator) buildAdjacencyMap(bomLines []entities.BOMLine) map[entities.PartID][]entities.PartID {
	adjacencyMap := make(map[entities.PartID][]entities.PartID)
	seen := make(map[[2]entities.PartID]bool)

	for _, line := range bomLines {
		edge := [2]entities.PartID{line.ParentID, line.SubPartID}
		if seen[edge] {
			continue
		}
		seen[edge] = true
		adjacencyMap[line.ParentID] = append(adjacencyMap[line.ParentID], line.SubPartID)
	}

	return adjacencyMap
}

// detectCycles uses DFS from every parent, in id order, to find cycles
func (v *BOMValidator) detectCycles(adjacencyMap map[entities.PartID][]entities.PartID) [][]entities.PartID {
	visited := make(map[entities.PartID]bool)
	recursionStack := make(map[entities.PartID]bool)
	cycles := make([][]entities.PartID, 0)

	parents := make([]entities.PartID, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		parents = append(parents, parent)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })

	for _, parent := range parents {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

func (v *BOMValidator) dfsDetectCycle(
	current entities.PartID,
	adjacencyMap map[entities.PartID][]entities.PartID,
	visited map[entities.PartID]bool,
	recursionStack map[entities.PartID]bool,
	path []entities.PartID,
	cycles *[][]entities.PartID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}
		for i, part := range path {
			if part == child {
				cycle := make([]entities.PartID, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateLines finds lines repeating parent, sub-part and reference.
// Each repeated occurrence is reported once.
func (v *BOMValidator) detectDuplicateLines(bomLines []entities.BOMLine) []entities.BOMLine {
	type lineKey struct {
		parent, child entities.PartID
		reference     string
	}
	seen := make(map[lineKey]bool)
	duplicates := make([]entities.BOMLine, 0)

	for _, line := range bomLines {
		key := lineKey{line.ParentID, line.SubPartID, line.Reference}
		if seen[key] {
			duplicates = append(duplicates, line)
			continue
		}
		seen[key] = true
	}

	return duplicates
}

func (v *BOMValidator) detectDanglingLines(partsByID map[entities.PartID]entities.Part, bomLines []entities.BOMLine) []entities.BOMLine {
	dangling := make([]entities.BOMLine, 0)
	for _, line := range bomLines {
		_, parentKnown := partsByID[line.ParentID]
		_, childKnown := partsByID[line.SubPartID]
		if !parentKnown || !childKnown {
			dangling = append(dangling, line)
		}
	}
	return dangling
}

func (v *BOMValidator) checkAssemblyFlags(
	parts []entities.Part,
	adjacencyMap map[entities.PartID][]entities.PartID,
) (basePartsWithLines, emptyAssemblies []entities.PartID) {
	basePartsWithLines = make([]entities.PartID, 0)
	emptyAssemblies = make([]entities.PartID, 0)

	for _, part := range parts {
		hasLines := len(adjacencyMap[part.ID]) > 0
		switch {
		case !part.IsAssembly && hasLines:
			basePartsWithLines = append(basePartsWithLines, part.ID)
		case part.IsAssembly && !hasLines:
			emptyAssemblies = append(emptyAssemblies, part.ID)
		}
	}
	return basePartsWithLines, emptyAssemblies
}

// ValidatePartUniqueness reports part ids that occur more than once
func (v *BOMValidator) ValidatePartUniqueness(parts []entities.Part) *ValidationResult {
	result := &ValidationResult{
		Errors: make([]string, 0),
	}

	seen := make(map[entities.PartID]bool)
	duplicates := make([]entities.PartID, 0)

	for _, part := range parts {
		if seen[part.ID] {
			duplicates = append(duplicates, part.ID)
		} else {
			seen[part.ID] = true
		}
	}

	if len(duplicates) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate part ids found: %v", duplicates))
	}

	return result
}

func formatPath(path []entities.PartID) string {
	s := ""
	for i, id := range path {
		if i > 0 {
			s += " -> "
		}
		s += fmt.Sprintf("%d", id)
	}
	return s
}
