package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewLines(t *testing.T) {
	tests := []struct {
		name string
		prev []string
		cur  []string
		want []string
	}{
		{
			name: "first update",
			prev: nil,
			cur:  []string{"a", "b"},
			want: []string{"a", "b"},
		},
		{
			name: "window growing",
			prev: []string{"a", "b"},
			cur:  []string{"a", "b", "c"},
			want: []string{"c"},
		},
		{
			name: "window full one eviction",
			prev: []string{"a", "b", "c"},
			cur:  []string{"b", "c", "d"},
			want: []string{"d"},
		},
		{
			name: "window full multiple evictions",
			prev: []string{"a", "b", "c"},
			cur:  []string{"d", "e", "f"},
			want: []string{"d", "e", "f"},
		},
		{
			name: "repeated lines keep at least one new",
			prev: []string{"x", "x"},
			cur:  []string{"x", "x"},
			want: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newLines(tt.prev, tt.cur)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("newLines(%v, %v) = %v, want %v", tt.prev, tt.cur, got, tt.want)
			}
		})
	}
}

func TestDeltaPrinter_PrintsEachLineOnce(t *testing.T) {
	var out strings.Builder
	p := &deltaPrinter{w: &out}

	p.update([]string{"one"})
	p.update([]string{"one", "two"})
	p.update([]string{"two", "three"})

	want := "one\ntwo\nthree\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestTailCommand_ArgValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"pod target", []string{"pod", "train-0"}, false},
		{"job target", []string{"job", "eval"}, false},
		{"unknown kind", []string{"deployment", "x"}, true},
		{"missing name", []string{"pod"}, true},
		{"no args", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTailCommand(&rootFlags{})
			err := cmd.Args(cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Args(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"tail", "targets", "version"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}
