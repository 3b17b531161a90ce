package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Upper    key.Binding
	Lower    key.Binding
	Toggle   key.Binding
	Cast     key.Binding
	Now      key.Binding
	HourBack key.Binding
	HourFwd  key.Binding
	DayBack  key.Binding
	DayFwd   key.Binding
	YongShen key.Binding
	Question key.Binding
	Ask      key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Upper:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upper trigram")),
		Lower:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lower trigram")),
		Toggle:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "toggle moving")),
		Cast:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "cast coins")),
		Now:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "now")),
		HourBack: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "-1h")),
		HourFwd:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "+1h")),
		DayBack:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "-1d")),
		DayFwd:   key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "+1d")),
		YongShen: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "用神")),
		Question: key.NewBinding(key.WithKeys("?", "e"), key.WithHelp("e", "question")),
		Ask:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "ask advisor")),
		Help:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Upper, k.Lower, k.Toggle, k.Cast, k.Ask, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Upper, k.Lower, k.Toggle, k.Cast},
		{k.Now, k.HourBack, k.HourFwd, k.DayBack, k.DayFwd},
		{k.YongShen, k.Question, k.Ask},
		{k.Help, k.Quit},
	}
}
