// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	polygon "github.com/VNOI-Admin/polygon-bot"
	"github.com/VNOI-Admin/polygon-bot/internal/logging"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check that the configured credentials can log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "logged in")
			return err
		},
	}
}

func (a *app) contestsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "contests",
		Short: "List the contests of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contests, err := a.client.Contests()
			if err != nil {
				return err
			}

			return renderContests(cmd.OutOrStdout(), contests, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of contests to show, 0 for all")

	return cmd
}

func (a *app) contestInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contest-info CONTEST_ID",
		Short: "Show the problems of a contest as listed on its page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := a.client.ContestInfo(args[0])
			if err != nil {
				return err
			}

			return renderContestInfo(cmd.OutOrStdout(), problems)
		},
	}
}

func (a *app) contestProblemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contest-problems CONTEST_ID",
		Short: "Show the problems of a contest as returned by the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := a.client.ContestProblems(args[0])
			if err != nil {
				return err
			}

			return renderContestProblems(cmd.OutOrStdout(), problems)
		},
	}
}

func (a *app) problemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "problems",
		Short: "List the problems available to the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			problems, err := a.client.Problems()
			if err != nil {
				return err
			}

			return renderProblems(cmd.OutOrStdout(), problems)
		},
	}
}

func (a *app) testsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tests PROBLEM_ID",
		Short: "Summarize the tests of a problem by group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tests, err := a.client.ProblemTests(args[0])
			if err != nil {
				return err
			}

			return renderTestSummary(cmd.OutOrStdout(), polygon.SummarizeTests(tests))
		},
	}
}

func (a *app) linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link PROBLEM_ID",
		Short: "Print the share link of a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := a.client.ProblemLink(args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)

			return err
		},
	}
}

func (a *app) packageLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "package-link PROBLEM_ID",
		Short: "Print the link to the latest Linux package of a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, ok, err := a.client.PackageLink(args[0])
			if err != nil {
				return err
			}

			if !ok {
				return errors.Errorf("problem %s has no Linux package", args[0])
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)

			return err
		},
	}
}

func (a *app) downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download PROBLEM_ID",
		Short: "Write the latest Linux package of a problem to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, ok, err := a.client.DownloadPackage(args[0])
			if err != nil {
				return err
			}

			if !ok {
				return errors.Errorf("problem %s has no Linux package", args[0])
			}

			logging.FromContext(cmd.Context()).Info("downloaded package",
				"problem", args[0], "file", pkg.FileName, "bytes", len(pkg.Data))

			_, err = cmd.OutOrStdout().Write(pkg.Data)

			return err
		},
	}
}

func (a *app) downloadContestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download-contest CONTEST_ID",
		Short: "Download every package of a contest and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.FromContext(cmd.Context())
			out := cmd.OutOrStdout()

			var failed int

			err := a.client.DownloadContest(args[0], func(p polygon.ContestProblem, pkg *polygon.Package, err error) error {
				if err != nil {
					failed++
					log.Warn("package download failed", "problem", p.ProblemID, "error", err)
				}

				_, werr := fmt.Fprintln(out, downloadLine(p, pkg, err))

				return werr
			})
			if err != nil {
				return err
			}

			if failed > 0 {
				return errors.Errorf("%d package downloads failed", failed)
			}

			return nil
		},
	}
}

func (a *app) createPackageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-package PROBLEM_ID",
		Short: "Start building a full package for a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.CreatePackage(args[0]); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "package creation started for problem %s\n", args[0])

			return err
		},
	}
}

func (a *app) giveAccessCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "give-access PROBLEM_ID USER...",
		Short: "Give users access to a problem",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.client.GiveAccess(args[0], args[1:], write)
			if err != nil {
				return err
			}

			if !ok {
				return errors.Errorf("polygon did not confirm access to problem %s", args[0])
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "access to problem %s given to %d users\n", args[0], len(args)-1)

			return err
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "give write access instead of read access")

	return cmd
}

func (a *app) uploadSolutionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-solution PROBLEM_ID NAME FILE",
		Short: "Upload a main correct solution to a problem",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[2])
			if err != nil {
				return errors.Wrap(err, "failed to read solution")
			}

			return a.client.UploadSolution(args[0], args[1], string(content))
		},
	}
}

func (a *app) uploadTestCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "upload-test PROBLEM_ID INDEX FILE",
		Short: "Upload a test input to a problem",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, "invalid test index %q", args[1])
			}

			content, err := os.ReadFile(args[2])
			if err != nil {
				return errors.Wrap(err, "failed to read test")
			}

			return a.client.UploadTest(args[0], index, string(content), description)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "test description")

	return cmd
}

func (a *app) commitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit PROBLEM_ID",
		Short: "Commit the working copy of a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.Commit(args[0], message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")

	return cmd
}

func (a *app) workingCopiesCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "working-copies",
		Short: "List the ids of open working copies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := a.client.WorkingCopies(page)
			if err != nil {
				return err
			}

			return renderWorkingCopies(cmd.OutOrStdout(), ids)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "problem list page to scan")

	return cmd
}

func (a *app) discardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard WORKING_COPY_ID...",
		Short: "Discard working copies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := a.client.DiscardWorkingCopy(id); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
