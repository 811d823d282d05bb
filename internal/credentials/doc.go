// Package credentials resolves ServiceNow connection settings from ordered origins.
//
// Each slot (instance, username, password, api_key, oauth_token) is resolved
// independently by evaluating its origins lazily in a fixed order and taking
// the first non-empty value:
//
//  1. an explicit argument (CLI flag or config file)
//  2. the SERVICENOW_<SLOT> environment variable
//  3. a field of the configured 1Password item
//
// A slot with no value from any origin is absent. Resolution never fails;
// deciding whether the resolved set is usable is the job of package auth.
package credentials
