// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/keylens/keylens/internal/messages"
	"github.com/keylens/keylens/internal/resolve"
)

type (
	// Node is one row of the tree. The concrete types are SelectionNode,
	// OptionNode, KeyNode and ItemNode.
	Node interface {
		node()
	}

	// SelectionNode heads the tree with the active locale.
	SelectionNode struct {
		Active string
	}

	// OptionNode is one configured locale.
	OptionNode struct {
		Locale string
		Active bool
	}

	// KeyNode is one distinct key in the document.
	KeyNode struct {
		Key     string
		State   resolve.State
		Value   string
		FoundIn string
		Count   int
	}

	// ItemNode is one call site of the KeyNode preceding it.
	ItemNode struct {
		Key    string
		Offset int
		Args   string
	}
)

func (SelectionNode) node() {}
func (OptionNode) node()    {}
func (KeyNode) node()       {}
func (ItemNode) node()      {}

// Tree lays out the selection header, one option per locale, then each
// distinct key in first-occurrence order followed by its call sites.
func Tree(active string, set resolve.LocaleSet, calls []resolve.ResolvedCall) []Node {
	nodes := make([]Node, 0, 1+len(set.Locales)+2*len(calls))
	nodes = append(nodes, SelectionNode{Active: active})
	for _, locale := range set.Locales {
		nodes = append(nodes, OptionNode{Locale: locale, Active: locale == active})
	}

	var order []string
	keys := make(map[string]*KeyNode)
	items := make(map[string][]ItemNode)
	for _, call := range calls {
		k, ok := keys[call.Key]
		if !ok {
			k = &KeyNode{Key: call.Key, State: call.State, Value: call.Text(), FoundIn: call.FoundIn}
			keys[call.Key] = k
			order = append(order, call.Key)
		}
		k.Count++
		items[call.Key] = append(items[call.Key], ItemNode{Key: call.Key, Offset: call.Start, Args: call.Args})
	}

	for _, key := range order {
		nodes = append(nodes, *keys[key])
		for _, item := range items[key] {
			nodes = append(nodes, item)
		}
	}
	return nodes
}

// RenderNode renders a single node as one styled line.
func RenderNode(n Node, labels Labels) string {
	switch n := n.(type) {
	case SelectionNode:
		return TitleStyle.Render(labels.T(messages.TreeActiveLocale, nil)+": ") + activeStyle.Render(n.Active)
	case OptionNode:
		if n.Active {
			return "  ● " + activeStyle.Render(n.Locale)
		}
		return "  ○ " + n.Locale
	case KeyNode:
		hint := StyledHint(keyCall(n), labels)
		return fmt.Sprintf("%s  %s %s", keyStyle.Render(n.Key), hint,
			MutedStyle.Render("· "+labels.Occurrences(n.Count)))
	case ItemNode:
		return MutedStyle.Render(fmt.Sprintf("    @%d", n.Offset)) + " " + fmt.Sprintf("(%s)", n.Args)
	default:
		return ""
	}
}

// RenderTree renders every node, one per line.
func RenderTree(nodes []Node, labels Labels) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(RenderNode(n, labels))
		b.WriteByte('\n')
	}
	return b.String()
}

func keyCall(n KeyNode) resolve.ResolvedCall {
	call := resolve.ResolvedCall{State: n.State, FoundIn: n.FoundIn}
	call.Key = n.Key
	if n.State != resolve.Unresolved {
		v := n.Value
		call.Value = &v
	}
	return call
}
