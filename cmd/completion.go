package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tvxlabs/mediabridge/config"
	"github.com/tvxlabs/mediabridge/keys"
	"github.com/tvxlabs/mediabridge/recent"
)

func completionEngines(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	registry, err := loadRegistry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return registry.Names(), cobra.ShellCompDirectiveNoFileComp
}

func completionRecent(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(recent.List(), func(e recent.Entry, _ int) string {
		return e.Source
	}), cobra.ShellCompDirectiveNoFileComp
}

func completionKeyIDs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ids, err := keys.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}
