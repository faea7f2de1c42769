package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vantage/internal/api"
	"vantage/internal/config"
)

func newTargetsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List tailable pods and job runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd, flags)
		},
	}
}

func runTargets(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, err := api.NewClient(cfg.APIURL, cfg.Token)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	ctx := cmd.Context()
	pods, err := client.FetchPods(ctx)
	if err != nil {
		return fmt.Errorf("fetch pods: %w", err)
	}
	jobs, err := client.FetchJobs(ctx)
	if err != nil {
		return fmt.Errorf("fetch jobs: %w", err)
	}

	rows := make([][]string, 0, len(pods)+len(jobs))
	for _, pod := range pods {
		rows = append(rows, []string{
			"pod", pod.Name, pod.Phase, pod.GPUProfile, gpuCount(pod.GPUCount), pod.Node,
		})
	}
	for _, job := range jobs {
		rows = append(rows, []string{
			"job", job.Name, job.Status, job.GPUProfile, gpuCount(job.GPUCount), job.Node,
		})
	}

	headers := []string{"KIND", "NAME", "STATUS", "GPU PROFILE", "GPUS", "NODE"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	tty := isatty.IsTerminal(os.Stdout.Fd())

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns, tty))
	return nil
}

func gpuCount(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
