// Package deploy prints deployment instructions for the expense tracker.
//
// The tracker is hosted on PythonAnywhere; the steps below are static
// operator guidance and perform no remote actions themselves.
package deploy

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/kidevu123/expense-release/internal/logger"
)

// step is one numbered deployment instruction with optional detail lines.
type step struct {
	title   string
	details []string
}

// steps is the deployment runbook, in order.
var steps = []step{
	{
		title: "Upload files to your PythonAnywhere account",
		details: []string{
			"Go to the Files tab in PythonAnywhere",
			"Navigate to ~/mysite/",
			"Upload all project files",
		},
	},
	{
		title:   "Install dependencies",
		details: []string{"pip3.10 install --user -r requirements.txt"},
	},
	{
		title:   "Set up the database",
		details: []string{"python3.10 app.py"},
	},
	{
		title: "Configure the WSGI file",
		details: []string{
			"Update wsgi.py with your username and project path",
			"Set FLASK_ENV=production",
			"Set up Zoho API credentials in config.py",
		},
	},
	{
		title: "Test the application",
		details: []string{
			"https://yourusername.pythonanywhere.com",
			"Change the default admin password after first login",
		},
	},
}

// Run writes the deployment instructions to w.
func Run(ctx context.Context, w io.Writer) error {
	ctx = logger.WithName(ctx, "deploy-info")

	header := color.New(color.FgCyan, color.Bold)

	if _, err := header.Fprintln(w, "PythonAnywhere Deployment Instructions"); err != nil {
		return fmt.Errorf("write deploy info: %w", err)
	}

	for i, s := range steps {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, s.title)

		for _, detail := range s.details {
			fmt.Fprintf(w, "   - %s\n", detail)
		}
	}

	fmt.Fprintln(w, "\nFor detailed instructions, see README.md")

	logger.Debug(ctx, "Deployment instructions printed")

	return nil
}
