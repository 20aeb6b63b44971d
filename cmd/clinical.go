package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/medimind/mindline/pkg/medimind"
	"github.com/spf13/cobra"
)

var patientCmd = &cobra.Command{
	Use:   "patient",
	Short: "Show the patient demographics extracted from the documents",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := backendClient().PatientData(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if data.Message != "" {
			fmt.Println(data.Message)
			return
		}

		printField("Name", data.Name)
		printField("Age", data.Age)
		printField("Date of birth", data.DateOfBirth)
		printField("Gender", data.Gender)
		printField("Patient ID", data.PatientID)
		printField("Address", data.Address)
		printField("Phone", data.Phone)
		printField("Email", data.Email)
		if len(data.VitalSigns) > 0 {
			fmt.Println("Vital signs:")
			for name, value := range data.VitalSigns {
				fmt.Printf("  %-20s %s\n", name, value)
			}
		}
	},
}

var clinicalCmd = &cobra.Command{
	Use:   "clinical",
	Short: "Show the structured clinical snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := backendClient().ClinicalData(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if data.Message != "" {
			fmt.Println(data.Message)
			return
		}

		printClinical(data)
	},
}

func printClinical(data *medimind.ClinicalData) {
	fmt.Printf("Events: %d  Labs: %d (%d abnormal)  Medications: %d  Red flags: %d\n",
		data.Summary.TotalEvents, data.Summary.TotalLabs, data.Summary.AbnormalLabs,
		data.Summary.TotalMedications, data.Summary.TotalRedFlags)

	if len(data.Labs) > 0 {
		fmt.Println("\nLabs:")
		for _, lab := range data.Labs {
			marker := " "
			if lab.Abnormal {
				marker = "!"
			}
			line := fmt.Sprintf("%s %-25s %s %s", marker, lab.TestName, lab.Value, lab.Units)
			if lab.ReferenceRange != "" {
				line += "  (ref " + lab.ReferenceRange + ")"
			}
			fmt.Println(strings.TrimRight(line, " "))
		}
	}

	if len(data.Medications) > 0 {
		fmt.Println("\nMedications:")
		for _, med := range data.Medications {
			fmt.Printf("  %s %s\n", med.Name, med.Dose)
		}
	}

	if len(data.RedFlags) > 0 {
		fmt.Println("\nRed flags:")
		for _, flag := range data.RedFlags {
			fmt.Printf("  ! %s\n", flag)
		}
	}
}

func printField(label string, value *string) {
	display := "not found in files"
	if value != nil && *value != "" {
		display = *value
	}
	fmt.Printf("%-15s %s\n", label, display)
}

func init() {
	rootCmd.AddCommand(patientCmd)
	rootCmd.AddCommand(clinicalCmd)
}
