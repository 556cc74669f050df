package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"storefront-bridge/internal/apiclient"
)

var (
	apiMethod     string
	apiBody       string
	apiQuery      map[string]string
	apiPathParams map[string]string
	apiGraphQL    string
	apiVariables  string
)

var apiCmd = &cobra.Command{
	Use:   "api <name> [endpoint]",
	Short: "Call a configured external API",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := apiclient.CallParams{
			API:          args[0],
			Method:       apiMethod,
			PathParams:   apiPathParams,
			Query:        apiQuery,
			GraphQLQuery: apiGraphQL,
		}
		if len(args) > 1 {
			params.Endpoint = args[1]
		}
		if apiBody != "" {
			if !json.Valid([]byte(apiBody)) {
				return fmt.Errorf("--data must be valid JSON")
			}
			params.Payload = json.RawMessage(apiBody)
		}
		if apiVariables != "" {
			if err := json.Unmarshal([]byte(apiVariables), &params.Variables); err != nil {
				return fmt.Errorf("--variables must be a JSON object: %w", err)
			}
		}

		return getApp().CallAPI(cmd.Context(), cmd.OutOrStdout(), params)
	},
}

func init() {
	apiCmd.Flags().StringVarP(&apiMethod, "method", "X", "GET", "HTTP method")
	apiCmd.Flags().StringVarP(&apiBody, "data", "d", "", "Request body as JSON")
	apiCmd.Flags().StringToStringVar(&apiQuery, "query", nil, "Query parameters as key=value")
	apiCmd.Flags().StringToStringVar(&apiPathParams, "path-param", nil, "Path parameters as key=value")
	apiCmd.Flags().StringVar(&apiGraphQL, "graphql", "", "GraphQL query for graphql endpoints")
	apiCmd.Flags().StringVar(&apiVariables, "variables", "", "GraphQL variables as a JSON object")
}
