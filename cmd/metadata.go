package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/pinning"
)

// parseProperties turns key=value pairs into metadata properties.
func parseProperties(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	result := map[string]interface{}{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("property %q is not in key=value form", pair)
		}
		result[key] = strings.TrimSpace(value)
	}
	return result, nil
}

func runStoreMetadata(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	if config.MetadataName == "" {
		return errors.New("--name is required")
	}
	if config.MetadataDescription == "" {
		return errors.New("--description is required")
	}
	if config.MetadataImage == "" {
		return errors.New("--image is required")
	}
	properties, err := parseProperties(config.MetadataProperties)
	if err != nil {
		return err
	}
	client, err := pinning.NewClientFromEnv(config.PinningEndpoint)
	if err != nil {
		return err
	}

	stop := cc.UI.Spinner("uploading metadata")
	result, err := client.Store(cmd.Context(), pinning.Metadata{
		Name:        config.MetadataName,
		Description: config.MetadataDescription,
		Image:       config.MetadataImage,
		Properties:  properties,
	})
	stop()
	if err != nil {
		return err
	}
	if config.JSONOutput {
		return cc.UI.JSON(map[string]string{
			"ipnft": result.IPNFT,
			"url":   result.URL,
			"image": result.ImageURL,
		})
	}
	cc.UI.Success("Metadata stored")
	cc.UI.KeyValue([][2]string{
		{"IPNFT", result.IPNFT},
		{"Metadata URL", result.URL},
		{"Image URL", result.ImageURL},
	})
	return nil
}

var storeMetadataCmd = &cobra.Command{
	Use:   "store",
	Short: "Pin token metadata and its image",
	Long: fmt.Sprintf(`Uploads the image and a metadata document referring to it to the pinning
service and prints the ipfs:// url to use as token uri. The api token is
read from %s.`, pinning.TokenVariable),
	Args: cobra.NoArgs,
	RunE: runStoreMetadata,
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Manage token metadata",
}

func init() {
	storeMetadataCmd.Flags().StringVar(&config.MetadataName, "name", "", "token name")
	storeMetadataCmd.Flags().StringVar(&config.MetadataDescription, "description", "", "token description")
	storeMetadataCmd.Flags().StringVar(&config.MetadataImage, "image", "", "path to the image file")
	storeMetadataCmd.Flags().StringArrayVar(&config.MetadataProperties, "property", nil, "extra property as key=value, repeatable")
	storeMetadataCmd.Flags().StringVar(&config.PinningEndpoint, "endpoint", pinning.DefaultEndpoint, "pinning service url")
	metadataCmd.AddCommand(storeMetadataCmd)
	rootCmd.AddCommand(metadataCmd)
}
