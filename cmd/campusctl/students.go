package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	studentsCmd := &cobra.Command{Use: "students", Short: "Student directory operations"}

	// list
	var search, department string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			page, err := service.NewStudentService(cli.client).List(cmd.Context(), domain.StudentFilter{Search: search, Department: department})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, page)
			}

			tw := newTable(os.Stdout, "STUDENT ID", "NAME", "DEPARTMENT", "EMAIL")
			for _, st := range page.Students {
				row(tw, st.StudentID, st.Name, st.Department, st.Email)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, page.Summary())
			return nil
		}),
	}
	listCmd.Flags().StringVarP(&search, "search", "s", "", "Match name, student ID or email")
	listCmd.Flags().StringVarP(&department, "department", "d", "", "Only this department")
	studentsCmd.AddCommand(listCmd)

	// get
	studentsCmd.AddCommand(&cobra.Command{
		Use:   "get STUDENT_ID",
		Short: "Get a student",
		Args:  cobra.ExactArgs(1),
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			st, err := service.NewStudentService(cli.client).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printStudent(st)
		}),
	})

	// create
	var in domain.StudentCreate
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a student",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			st, err := service.NewStudentService(cli.client).Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printStudent(st)
		}),
	}
	createCmd.Flags().StringVar(&in.StudentID, "id", "", "Student ID (required)")
	createCmd.Flags().StringVarP(&in.Name, "name", "n", "", "Name (required)")
	createCmd.Flags().StringVarP(&in.Department, "department", "d", "", "Department (required)")
	createCmd.Flags().StringVarP(&in.Email, "email", "e", "", "Email (required)")
	studentsCmd.AddCommand(createCmd)

	// update
	updateCmd := &cobra.Command{
		Use:   "update STUDENT_ID",
		Short: "Update a student's name, department or email",
		Args:  cobra.ExactArgs(1),
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			var upd domain.StudentUpdate
			for flag, dst := range map[string]**string{"name": &upd.Name, "department": &upd.Department, "email": &upd.Email} {
				if cmd.Flags().Changed(flag) {
					v, _ := cmd.Flags().GetString(flag)
					*dst = &v
				}
			}
			if upd.Name == nil && upd.Department == nil && upd.Email == nil {
				return fmt.Errorf("nothing to update: pass --name, --department or --email")
			}

			st, err := service.NewStudentService(cli.client).Update(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			return printStudent(st)
		}),
	}
	updateCmd.Flags().StringP("name", "n", "", "New name")
	updateCmd.Flags().StringP("department", "d", "", "New department")
	updateCmd.Flags().StringP("email", "e", "", "New email")
	studentsCmd.AddCommand(updateCmd)

	// delete
	studentsCmd.AddCommand(&cobra.Command{
		Use:   "delete STUDENT_ID",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			if err := service.NewStudentService(cli.client).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Deleted %s\n", args[0])
			return nil
		}),
	})

	rootCmd.AddCommand(studentsCmd)

	// analytics
	var overview bool
	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show campus analytics",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			analytics := service.NewAnalyticsService(cli.client)

			var (
				d   *service.Dashboard
				err error
			)
			if overview {
				d, err = analytics.StudentOverview(cmd.Context())
			} else {
				d, err = analytics.Dashboard(cmd.Context())
			}
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, d)
			}

			fmt.Fprintf(os.Stdout, "Total students:    %d\n", d.TotalStudents)
			fmt.Fprintf(os.Stdout, "Active (7 days):   %d\n\n", d.ActiveLast7Days)

			tw := newTable(os.Stdout, "DEPARTMENT", "STUDENTS", "SHARE")
			for _, s := range d.Departments {
				row(tw, s.Department, strconv.Itoa(s.Count), fmt.Sprintf("%.1f%%", s.Percent))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(d.Recent) > 0 {
				fmt.Fprintln(os.Stdout, "\nRecently onboarded:")
				for _, st := range d.Recent {
					fmt.Fprintf(os.Stdout, "  %s  %s (%s)\n", st.StudentID, st.Name, st.Department)
				}
			}
			return nil
		}),
	}
	analyticsCmd.Flags().BoolVar(&overview, "students", false, "Use the student overview aggregates")
	rootCmd.AddCommand(analyticsCmd)
}

func printStudent(st *domain.Student) error {
	if jsonOutput() {
		return printJSON(os.Stdout, st)
	}
	fmt.Fprintf(os.Stdout, "%s  %s\n", st.StudentID, st.Name)
	fmt.Fprintf(os.Stdout, "  department: %s\n", st.Department)
	fmt.Fprintf(os.Stdout, "  email:      %s\n", st.Email)
	return nil
}
