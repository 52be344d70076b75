package ast

import "strings"

// MetadataVisitor provides utilities for working with metadata across the AST
type MetadataVisitor struct {
	tracker    *NodeTracker
	sourceText string
}

// NewMetadataVisitor creates a new metadata visitor
func NewMetadataVisitor(sourceText string) *MetadataVisitor {
	return &MetadataVisitor{
		tracker:    NewNodeTracker(),
		sourceText: sourceText,
	}
}

// AssignMetadata assigns metadata to a node and all its children
func (mv *MetadataVisitor) AssignMetadata(node Node, parentID NodeID) {
	if node == nil {
		return
	}

	// Generate unique ID for this node
	nodeID := mv.tracker.GenerateID()

	// Extract source text for this node
	start := node.NodePos()
	end := node.NodeEndPos()
	sourceText := mv.extractSourceText(start, end)

	// Create metadata
	metadata := &Metadata{
		NodeID:     nodeID,
		Source:     CreateSourceRange(start, end),
		SourceText: sourceText,
		ParentID:   parentID,
	}

	// Assign to node
	node.SetMetadata(metadata)
	mv.tracker.SetMetadata(nodeID, metadata)

	// Visit children recursively
	mv.visitChildren(node, nodeID)
}

// extractSourceText extracts the source text between two positions
func (mv *MetadataVisitor) extractSourceText(start, end Position) string {
	if mv.sourceText == "" {
		return ""
	}

	if start.Offset < 0 || end.Offset < 0 || start.Offset > len(mv.sourceText) || end.Offset > len(mv.sourceText) {
		return ""
	}

	if start.Offset > end.Offset {
		return ""
	}

	return mv.sourceText[start.Offset:end.Offset]
}

// visitChildren visits all children of a node
func (mv *MetadataVisitor) visitChildren(node Node, parentID NodeID) {
	switch n := node.(type) {
	case *TranslationUnit:
		for _, decl := range n.Decls {
			mv.AssignMetadata(decl, parentID)
		}

	case *StructDecl:
		mv.AssignMetadata(&n.Name, parentID)
		for _, field := range n.Fields {
			mv.AssignMetadata(field, parentID)
		}

	case *StructField:
		mv.AssignMetadata(&n.Name, parentID)
		if n.Type != nil {
			mv.AssignMetadata(n.Type, parentID)
		}

	case *Type:
		if n.Elem != nil {
			mv.AssignMetadata(n.Elem, parentID)
		}

	case *FunctionDecl:
		mv.AssignMetadata(&n.Name, parentID)
		for _, param := range n.Params {
			mv.AssignMetadata(param, parentID)
		}
		if n.ReturnType != nil {
			mv.AssignMetadata(n.ReturnType, parentID)
		}
		if n.Body != nil {
			mv.AssignMetadata(n.Body, parentID)
		}

	case *Param:
		mv.AssignMetadata(&n.Name, parentID)
		if n.Type != nil {
			mv.AssignMetadata(n.Type, parentID)
		}

	case *BlockStmt:
		for _, stmt := range n.Stmts {
			mv.AssignMetadata(stmt, parentID)
		}

	case *ExprStmt:
		if n.Expr != nil {
			mv.AssignMetadata(n.Expr, parentID)
		}

	case *ReturnStmt:
		if n.Value != nil {
			mv.AssignMetadata(n.Value, parentID)
		}

	case *DeclStmt:
		mv.AssignMetadata(&n.Name, parentID)
		if n.Type != nil {
			mv.AssignMetadata(n.Type, parentID)
		}
		if n.Init != nil {
			mv.AssignMetadata(n.Init, parentID)
		}

	case *IfStmt:
		if n.Cond != nil {
			mv.AssignMetadata(n.Cond, parentID)
		}
		if n.Then != nil {
			mv.AssignMetadata(n.Then, parentID)
		}
		if n.Else != nil {
			mv.AssignMetadata(n.Else, parentID)
		}

	case *WhileStmt:
		if n.Cond != nil {
			mv.AssignMetadata(n.Cond, parentID)
		}
		if n.Body != nil {
			mv.AssignMetadata(n.Body, parentID)
		}

	case *ForStmt:
		if n.Init != nil {
			mv.AssignMetadata(n.Init, parentID)
		}
		if n.Cond != nil {
			mv.AssignMetadata(n.Cond, parentID)
		}
		if n.Post != nil {
			mv.AssignMetadata(n.Post, parentID)
		}
		if n.Body != nil {
			mv.AssignMetadata(n.Body, parentID)
		}

	case *AssignStmt:
		if n.Target != nil {
			mv.AssignMetadata(n.Target, parentID)
		}
		if n.Value != nil {
			mv.AssignMetadata(n.Value, parentID)
		}

	case *BinaryExpr:
		if n.Left != nil {
			mv.AssignMetadata(n.Left, parentID)
		}
		if n.Right != nil {
			mv.AssignMetadata(n.Right, parentID)
		}

	case *UnaryExpr:
		if n.Value != nil {
			mv.AssignMetadata(n.Value, parentID)
		}

	case *PostfixExpr:
		if n.Value != nil {
			mv.AssignMetadata(n.Value, parentID)
		}

	case *CallExpr:
		if n.Callee != nil {
			mv.AssignMetadata(n.Callee, parentID)
		}
		for _, arg := range n.Args {
			mv.AssignMetadata(arg, parentID)
		}

	case *IndexExpr:
		if n.Target != nil {
			mv.AssignMetadata(n.Target, parentID)
		}
		if n.Index != nil {
			mv.AssignMetadata(n.Index, parentID)
		}

	case *MemberExpr:
		if n.Target != nil {
			mv.AssignMetadata(n.Target, parentID)
		}

	case *CastExpr:
		if n.Type != nil {
			mv.AssignMetadata(n.Type, parentID)
		}
		if n.Value != nil {
			mv.AssignMetadata(n.Value, parentID)
		}

	case *SizeofExpr:
		if n.Type != nil {
			mv.AssignMetadata(n.Type, parentID)
		}
		if n.Value != nil {
			mv.AssignMetadata(n.Value, parentID)
		}

	case *ParenExpr:
		if n.Value != nil {
			mv.AssignMetadata(n.Value, parentID)
		}
	}
}

// GetTracker returns the node tracker
func (mv *MetadataVisitor) GetTracker() *NodeTracker {
	return mv.tracker
}

// FindNodeByPosition finds a node at a specific position
func (mv *MetadataVisitor) FindNodeByPosition(pos Position) *Metadata {
	for _, meta := range mv.tracker.metadata {
		if meta.Source.Contains(pos) {
			return meta
		}
	}
	return nil
}

// GetNodesByType always returns nil: the tracker stores only metadata, not
// the nodes themselves, so nodeType is never matched against anything.
func (mv *MetadataVisitor) GetNodesByType(nodeType NodeType) []*Metadata {
	var result []*Metadata
	for nodeID := range mv.tracker.metadata {
		// Metadata carries no node type to compare against.
		_ = nodeID
	}
	return result
}

// PrintDebugInfo prints debugging information about all nodes
func (mv *MetadataVisitor) PrintDebugInfo() string {
	var sb strings.Builder
	sb.WriteString("=== AST Metadata Debug Info ===\n")

	for nodeID, meta := range mv.tracker.metadata {
		sb.WriteString(string(rune('A' + int(nodeID-1))))
		sb.WriteString(": ")
		sb.WriteString(meta.String())
		sb.WriteString("\n")

		if meta.SourceText != "" {
			sb.WriteString("   Source: ")
			sb.WriteString(strings.ReplaceAll(meta.SourceText, "\n", "\\n"))
			sb.WriteString("\n")
		}

		if meta.CompilationInfo != nil {
			sb.WriteString("   Compilation: ")
			if meta.CompilationInfo.IRID != 0 {
				sb.WriteString("IR:")
				sb.WriteString(string(rune('0' + int(meta.CompilationInfo.IRID))))
				sb.WriteString(" ")
			}
			if meta.CompilationInfo.BytecodeRange != nil {
				sb.WriteString("Bytecode:")
				sb.WriteString(string(rune('0' + int(meta.CompilationInfo.BytecodeRange.StartAddress))))
				sb.WriteString("-")
				sb.WriteString(string(rune('0' + int(meta.CompilationInfo.BytecodeRange.EndAddress))))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
