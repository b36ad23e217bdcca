package arm

import "testing"

func TestDeploymentName(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"Foundation-storage.json", "foundation-storage-deployment"},
		{"Compute.json", "compute-deployment"},
		{"noextension", "noextension-deployment"},
		{"Mixed.Case.json", "mixed.case-deployment"},
	}
	for _, tt := range tests {
		if got := DeploymentName(tt.fileName); got != tt.want {
			t.Errorf("DeploymentName(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}

func TestResourceID(t *testing.T) {
	got := ResourceID("Microsoft.Resources/deployments", "foundation-deployment")
	want := "resourceId('Microsoft.Resources/deployments', 'foundation-deployment')"
	if got != want {
		t.Errorf("ResourceID = %q, want %q", got, want)
	}
}

func TestDeploymentOutput(t *testing.T) {
	got := DeploymentOutput("foundation-storage-deployment", "storageAccount1_id")
	want := "[reference(resourceId('Microsoft.Resources/deployments', 'foundation-storage-deployment')).outputs.storageAccount1_id.value]"
	if got != want {
		t.Errorf("DeploymentOutput = %q, want %q", got, want)
	}
}

func TestArtifactURI(t *testing.T) {
	got := ArtifactURI("Foundation.json")
	want := "[concat(parameters('_artifactsLocation'), '/Foundation.json', parameters('_artifactsLocationSasToken'))]"
	if got != want {
		t.Errorf("ArtifactURI = %q, want %q", got, want)
	}
}

func TestParameterReference(t *testing.T) {
	if got := ParameterReference("env"); got != "[parameters('env')]" {
		t.Errorf("ParameterReference = %q", got)
	}
}

func TestNestedDeployment(t *testing.T) {
	r := NestedDeployment("Compute.json", []string{DeploymentResourceID("foundation-deployment")})

	if r.Type != DeploymentResourceType {
		t.Errorf("Type = %q, want %q", r.Type, DeploymentResourceType)
	}
	if r.Name != "compute-deployment" {
		t.Errorf("Name = %q, want compute-deployment", r.Name)
	}
	if r.Properties["mode"] != "Incremental" {
		t.Errorf("mode = %v, want Incremental", r.Properties["mode"])
	}
	link, ok := r.Properties["templateLink"].(TemplateLink)
	if !ok {
		t.Fatalf("templateLink missing or wrong type: %T", r.Properties["templateLink"])
	}
	if link.URI != ArtifactURI("Compute.json") {
		t.Errorf("templateLink.uri = %q", link.URI)
	}
}

func TestRootParameters(t *testing.T) {
	merged := RootParameters(map[string]Parameter{
		"environment": {Type: "string"},
	})
	if _, ok := merged[ArtifactsLocationParameter]; !ok {
		t.Error("missing _artifactsLocation")
	}
	sas, ok := merged[ArtifactsSasTokenParameter]
	if !ok {
		t.Fatal("missing _artifactsLocationSasToken")
	}
	if sas.Type != "securestring" || sas.DefaultValue != "" {
		t.Errorf("SAS parameter = %+v", sas)
	}
	if _, ok := merged["environment"]; !ok {
		t.Error("original parameters must be merged in")
	}
}
