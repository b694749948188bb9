package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"study-planner/internal/model"
	"study-planner/internal/service"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Users     []seedUser     `yaml:"users"`
	Templates []seedTemplate `yaml:"templates"`
}

type seedUser struct {
	Name  string     `yaml:"name"`
	Plans []seedPlan `yaml:"plans"`
}

type seedPlan struct {
	Title   string     `yaml:"title"`
	Subject string     `yaml:"subject"`
	Color   *string    `yaml:"color"`
	Tasks   []seedTask `yaml:"tasks"`
}

type seedTask struct {
	Date        string       `yaml:"date"`
	Description string       `yaml:"description"`
	LinkURL     *string      `yaml:"link_url"`
	Status      model.Status `yaml:"status"`
}

type seedTemplate struct {
	Title       string     `yaml:"title"`
	Subject     string     `yaml:"subject"`
	Description string     `yaml:"description"`
	Items       []seedItem `yaml:"items"`
}

type seedItem struct {
	Title   string  `yaml:"title"`
	LinkURL *string `yaml:"link_url"`
}

type seedResult struct {
	Users, Plans, Tasks, Templates int
}

func parseSeed(data []byte) (*seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, errors.Wrap(err, "parse seed file")
	}
	if len(seed.Users) == 0 && len(seed.Templates) == 0 {
		return nil, errors.New("seed file has no users and no templates")
	}
	return &seed, nil
}

// applySeed writes the seed through the services so every row passes input validation.
func applySeed(ctx context.Context, a *app, seed *seedFile) (seedResult, error) {
	var res seedResult

	for _, tpl := range seed.Templates {
		input := service.TemplateInput{Title: tpl.Title, Subject: tpl.Subject, Description: tpl.Description}
		for _, it := range tpl.Items {
			input.Items = append(input.Items, service.TemplateItemInput{Title: it.Title, LinkURL: it.LinkURL})
		}
		if _, err := a.templates.Create(ctx, input); err != nil {
			return res, errors.Wrapf(err, "template %q", tpl.Title)
		}
		res.Templates++
	}

	for _, u := range seed.Users {
		usr, created, err := a.users.Login(ctx, service.LoginInput{Name: u.Name})
		if err != nil {
			return res, errors.Wrapf(err, "user %q", u.Name)
		}
		if created {
			res.Users++
		}

		for _, p := range u.Plans {
			plan, err := a.plans.Create(ctx, usr, service.PlanInput{Title: p.Title, Subject: p.Subject, Color: p.Color})
			if err != nil {
				return res, errors.Wrapf(err, "plan %q", p.Title)
			}
			res.Plans++
			if len(p.Tasks) == 0 {
				continue
			}

			input := service.DailyTasksInput{DailyTasks: make([]service.DailyTaskInput, len(p.Tasks))}
			for i, t := range p.Tasks {
				input.DailyTasks[i] = service.DailyTaskInput{
					Date:    t.Date,
					Title:   t.Description,
					LinkURL: t.LinkURL,
					Status:  t.Status,
				}
			}
			tasks, err := a.plans.ReplaceDailyTasks(ctx, usr, plan.ID, input)
			if err != nil {
				return res, errors.Wrapf(err, "tasks of plan %q", p.Title)
			}
			res.Tasks += len(tasks)
		}
	}
	return res, nil
}

// SeedCmd returns the seed command.
func SeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Load users, plans and templates from a YAML file",
		Example: `  studyplanner seed --file demo.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return errors.Wrap(err, "read seed file")
			}
			seed, err := parseSeed(data)
			if err != nil {
				return err
			}

			a, err := loadApp("SEED : ")
			if err != nil {
				return err
			}
			defer a.close()

			res, err := applySeed(cmd.Context(), a, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d new users, %d plans, %d tasks, %d templates\n",
				color.GreenString("✓"), res.Users, res.Plans, res.Tasks, res.Templates)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
